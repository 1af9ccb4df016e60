package postgres

import (
	"context"

	"gorm.io/gorm"
)

// DB returns the current GORM client.
func (p *Postgres) DB() *gorm.DB {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Client
}

// Create inserts value.
func (p *Postgres) Create(ctx context.Context, value interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Client.WithContext(ctx).Create(value).Error
}

// Exec executes raw SQL.
func (p *Postgres) Exec(ctx context.Context, sql string, values ...interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Client.WithContext(ctx).Exec(sql, values...).Error
}

// Raw runs a raw query and scans every row into dest.
func (p *Postgres) Raw(ctx context.Context, dest interface{}, sql string, values ...interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Client.WithContext(ctx).Raw(sql, values...).Scan(dest).Error
}

// Count counts rows of model matching the condition.
func (p *Postgres) Count(ctx context.Context, model interface{}, count *int64, condition string, args ...interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Client.WithContext(ctx).Model(model).Where(condition, args...).Count(count).Error
}
