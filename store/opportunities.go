package store

import (
	"context"
	"fmt"
	"time"

	"internmatch/models"

	"github.com/jackc/pgx/v5"
)

type OpportunityRepository interface {
	Insert(ctx context.Context, o *models.Opportunity) error
	ListAll(ctx context.Context) ([]models.Opportunity, error)
}

type PostgresOpportunityRepository struct {
	db Database
}

func NewOpportunityRepository(db Database) *PostgresOpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

func (r *PostgresOpportunityRepository) Insert(ctx context.Context, o *models.Opportunity) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `INSERT INTO opportunity (title, description, skills_required, posted_date)
		VALUES ($1, $2, $3, $4) RETURNING id`
	err := WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt, o.Title, o.Description, o.SkillsRequired, o.PostedDate).Scan(&o.ID)
	})
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", classify(err))
	}
	return nil
}

// ListAll returns every opportunity, newest first.
func (r *PostgresOpportunityRepository) ListAll(ctx context.Context) ([]models.Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, title, description, skills_required, posted_date
		FROM opportunity ORDER BY posted_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}

	opportunities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Opportunity, error) {
		var o models.Opportunity
		err := row.Scan(&o.ID, &o.Title, &o.Description, &o.SkillsRequired, &o.PostedDate)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan opportunities: %w", err)
	}
	return opportunities, nil
}
