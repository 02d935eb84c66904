package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
	"github.com/rkarimov/smart-traffic/internal/zones/domain"
)

var (
	ErrZoneNotFound      = errors.New("traffic zone not found")
	ErrZoneAlreadyExists = errors.New("traffic zone name already exists")
)

type Repository interface {
	Create(ctx context.Context, name string, vehicleCount int) (domain.TrafficZone, error)
	FindByID(ctx context.Context, id int64) (domain.TrafficZone, error)
	List(ctx context.Context, skip, limit int) ([]domain.TrafficZone, error)
	Update(ctx context.Context, id int64, update domain.ZoneUpdate) (domain.TrafficZone, error)
	Delete(ctx context.Context, id int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, name string, vehicleCount int) (domain.TrafficZone, error) {
	defer observe("zone_create", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO traffic_zones (name, vehicle_count) VALUES ($1, $2) RETURNING id, name, vehicle_count`,
		name,
		vehicleCount,
	)

	zone, err := scanZone(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.TrafficZone{}, ErrZoneAlreadyExists
		}
		return domain.TrafficZone{}, err
	}
	return zone, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.TrafficZone, error) {
	defer observe("zone_find", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, vehicle_count FROM traffic_zones WHERE id = $1`,
		id,
	)
	return scanZone(row)
}

func (r *PgRepository) List(ctx context.Context, skip, limit int) ([]domain.TrafficZone, error) {
	defer observe("zone_list", time.Now())

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, vehicle_count FROM traffic_zones ORDER BY id OFFSET $1 LIMIT $2`,
		skip,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []domain.TrafficZone
	for rows.Next() {
		var z domain.TrafficZone
		if err := rows.Scan(&z.ID, &z.Name, &z.VehicleCount); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, id int64, update domain.ZoneUpdate) (domain.TrafficZone, error) {
	defer observe("zone_update", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`UPDATE traffic_zones
		 SET name = COALESCE($1, name), vehicle_count = COALESCE($2, vehicle_count)
		 WHERE id = $3
		 RETURNING id, name, vehicle_count`,
		update.Name,
		update.VehicleCount,
		id,
	)

	zone, err := scanZone(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.TrafficZone{}, ErrZoneAlreadyExists
		}
		return domain.TrafficZone{}, err
	}
	return zone, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	defer observe("zone_delete", time.Now())

	tag, err := r.pool.Exec(ctx, `DELETE FROM traffic_zones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrZoneNotFound
	}
	return nil
}

func scanZone(row pgx.Row) (domain.TrafficZone, error) {
	var zone domain.TrafficZone
	err := row.Scan(&zone.ID, &zone.Name, &zone.VehicleCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrafficZone{}, ErrZoneNotFound
		}
		return domain.TrafficZone{}, err
	}
	return zone, nil
}

func observe(operation string, start time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
