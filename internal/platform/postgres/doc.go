// Package postgres provides PostgreSQL implementations of the persistence
// interfaces defined in the store and job packages. Every store accepts a
// store.DBTX so the same implementation runs against a *sql.DB or inside a
// caller-managed *sql.Tx, and raw driver errors are mapped to store
// sentinel errors before they leave the package.
package postgres
