package repository

import (
	"context"

	"planner-backend/cmd/planner/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables of every stored entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Workspace{},
		&model.WorkspaceMember{},
		&model.Template{},
		&model.Event{},
	)
}

// Pinger checks the database connection for the health endpoint.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
