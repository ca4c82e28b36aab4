package repository

import (
	"context"
	"errors"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentRepository interface {
	GetByAgentID(ctx context.Context, agentID string) (*domain.CheckInAgent, error)
}

type PGAgentRepository struct {
	db *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) AgentRepository {
	return &PGAgentRepository{db: db}
}

func (r *PGAgentRepository) GetByAgentID(ctx context.Context, agentID string) (*domain.CheckInAgent, error) {
	row := r.db.QueryRow(ctx, `SELECT id, agent_id, workstation, is_active FROM check_in_agents WHERE agent_id=$1 AND is_active`, agentID)
	var a domain.CheckInAgent
	if err := row.Scan(&a.ID, &a.AgentID, &a.Workstation, &a.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ AgentRepository = (*PGAgentRepository)(nil)
