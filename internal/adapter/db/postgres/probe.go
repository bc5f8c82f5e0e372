package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Probe reports database reachability for health checks.
type Probe struct {
	db *gorm.DB
}

// NewProbe creates a new database Probe.
func NewProbe(db *gorm.DB) *Probe {
	return &Probe{db: db}
}

// Ping checks the connection pool with a round trip to the database.
func (p *Probe) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
