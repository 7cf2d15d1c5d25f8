// Package events decouples the services that request background work from
// the job system that runs it. Services emit JobRequestEvents through an
// EventEmitter; the job package registers handlers that turn those events
// into dispatched jobs.
package events
