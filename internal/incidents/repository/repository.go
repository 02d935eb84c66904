package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/rkarimov/smart-traffic/internal/incidents/domain"
)

var ErrIncidentNotFound = errors.New("incident not found")

type Repository interface {
	Create(ctx context.Context, incidentType, location string) (domain.Incident, error)
	FindByID(ctx context.Context, id int64) (domain.Incident, error)
	List(ctx context.Context) ([]domain.Incident, error)
	Update(ctx context.Context, id int64, update domain.IncidentUpdate) (domain.Incident, error)
	Delete(ctx context.Context, id int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, incidentType, location string) (domain.Incident, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO incidents (type, location, timestamp) VALUES ($1, $2, $3)
		 RETURNING id, type, location, timestamp`,
		incidentType,
		location,
		time.Now().UTC(),
	)
	return scanIncident(row)
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Incident, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, type, location, timestamp FROM incidents WHERE id = $1`,
		id,
	)
	return scanIncident(row)
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Incident, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type, location, timestamp FROM incidents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []domain.Incident
	for rows.Next() {
		var in domain.Incident
		if err := rows.Scan(&in.ID, &in.Type, &in.Location, &in.Timestamp); err != nil {
			return nil, err
		}
		incidents = append(incidents, in)
	}
	return incidents, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, id int64, update domain.IncidentUpdate) (domain.Incident, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE incidents
		 SET type = COALESCE($1, type), location = COALESCE($2, location)
		 WHERE id = $3
		 RETURNING id, type, location, timestamp`,
		update.Type,
		update.Location,
		id,
	)
	return scanIncident(row)
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIncidentNotFound
	}
	return nil
}

func scanIncident(row pgx.Row) (domain.Incident, error) {
	var in domain.Incident
	err := row.Scan(&in.ID, &in.Type, &in.Location, &in.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Incident{}, ErrIncidentNotFound
		}
		return domain.Incident{}, err
	}
	return in, nil
}
