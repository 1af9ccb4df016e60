package postgres

import "context"

// Migrate runs AutoMigrate for the provided models.
func (p *Postgres) Migrate(ctx context.Context, models ...interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Client.WithContext(ctx).AutoMigrate(models...)
}
