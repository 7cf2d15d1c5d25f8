// Package store defines persistence interfaces and shared database
// plumbing (the DBTX abstraction, sentinel errors, and the transaction
// helper). Concrete implementations live in internal/platform/postgres.
package store
