// Package postgres implements the repositories on PostgreSQL through sqlx.
// Embedded collections live in JSONB columns and every mutation of them is a
// single UPDATE guarded by a containment predicate.
package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devconnector/internal/repository"
)

const uniqueViolation = "23505"

func NewRepository(db *sqlx.DB) *repository.Repository {
	return &repository.Repository{
		User:    NewUserRepository(db),
		Profile: NewProfileRepository(db),
		Post:    NewPostRepository(db),
		Health:  NewHealthRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type healthRepository struct {
	db *sqlx.DB
}

func NewHealthRepository(db *sqlx.DB) repository.HealthRepository {
	return &healthRepository{db: db}
}

func (r *healthRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *healthRepository) Name() string {
	return "postgres"
}
