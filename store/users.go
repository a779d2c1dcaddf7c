package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"internmatch/models"

	"github.com/jackc/pgx/v5"
)

// UserField names a column users can be looked up by.
type UserField string

const (
	UserByUsername UserField = "username"
	UserByEmail    UserField = "email"
)

type UserRepository interface {
	FindBy(ctx context.Context, field UserField, value string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

type Database interface {
	DBTX
	TxBeginner
}

type PostgresUserRepository struct {
	db Database
}

func NewUserRepository(db Database) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindBy(ctx context.Context, field UserField, value string) (*models.User, error) {
	switch field {
	case UserByUsername, UserByEmail:
	default:
		return nil, fmt.Errorf("find user: unsupported field %q", field)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// field is one of the constants above, never user input
	stmt := `SELECT id, username, email, password FROM "user" WHERE ` + string(field) + ` = $1`

	u := &models.User{}
	err := r.db.QueryRow(ctx, stmt, value).Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by %s: %w", field, err)
	}
	return u, nil
}

// Insert stores user in its own transaction and fills in the generated id.
func (r *PostgresUserRepository) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `INSERT INTO "user" (username, email, password) VALUES ($1, $2, $3) RETURNING id`
	err := WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt, user.Username, user.Email, user.Password).Scan(&user.ID)
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", classify(err))
	}
	return nil
}
