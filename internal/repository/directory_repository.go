package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

// DirectoryRepository lists the agents and entities offered as report filters.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository instantiates the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// Agents returns users holding any of roles ordered by display name.
func (r *DirectoryRepository) Agents(ctx context.Context, roles []string) ([]models.Agent, error) {
	query := `SELECT id, display_name, role FROM users ORDER BY display_name ASC, id ASC`
	var args []interface{}
	if len(roles) > 0 {
		var err error
		query, args, err = sqlx.In(`SELECT id, display_name, role FROM users WHERE role IN (?) ORDER BY display_name ASC, id ASC`, roles)
		if err != nil {
			return nil, fmt.Errorf("expand agent roles: %w", err)
		}
		query = r.db.Rebind(query)
	}

	var agents []models.Agent
	if err := r.db.SelectContext(ctx, &agents, query, args...); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// Entities returns active entities ordered by name.
func (r *DirectoryRepository) Entities(ctx context.Context) ([]models.Entity, error) {
	const query = `SELECT id, name, status FROM entities WHERE status = 'active' ORDER BY name ASC, id ASC`
	var entities []models.Entity
	if err := r.db.SelectContext(ctx, &entities, query); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return entities, nil
}
