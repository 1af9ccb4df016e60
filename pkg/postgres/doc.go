// Package postgres manages the GORM connection used by the pgvector backend.
//
// The Postgres type keeps a single *gorm.DB behind a read/write lock, checks
// connectivity every ten seconds and reconnects in the background when the
// health check fails. Callers go through the helper methods (Exec, Raw,
// Create, Migrate) so that a reconnect never races an in-flight query.
package postgres
