// Package job implements asynchronous background work for the bookmark
// manager: a persisting dispatcher with a bounded worker pool, the
// resumable favorites-import pipeline, startup crash recovery, and the
// status reporting used by the HTTP surface.
//
// Durability rules: every job has a store record before its work is
// enqueued, the import pipeline stages its whole batch before enriching
// anything, and only the RecoveryManager may create resumable jobs.
package job
