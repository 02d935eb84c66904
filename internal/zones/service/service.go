package service

import (
	"context"
	"errors"
	"net/http"

	commonerrors "github.com/rkarimov/smart-traffic/internal/common/errors"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
	"github.com/rkarimov/smart-traffic/internal/zones/domain"
	"github.com/rkarimov/smart-traffic/internal/zones/repository"
)

var (
	ErrZoneNotFound = commonerrors.New(
		"ZONE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Traffic Zone not found",
	)

	ErrZoneNameTaken = commonerrors.New(
		"ZONE_NAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"Traffic Zone name already registered",
	)
)

type ZoneService struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewZoneService(repo repository.Repository, log *logger.Logger) *ZoneService {
	return &ZoneService{repo: repo, log: log}
}

func (s *ZoneService) Create(ctx context.Context, name string, vehicleCount int) (domain.TrafficZone, error) {
	zone, err := s.repo.Create(ctx, name, vehicleCount)
	if err != nil {
		return domain.TrafficZone{}, s.mapError(ctx, "create", err)
	}
	metrics.ZoneOperationsTotal.WithLabelValues("create").Inc()
	return zone, nil
}

func (s *ZoneService) Get(ctx context.Context, id int64) (domain.TrafficZone, error) {
	zone, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.TrafficZone{}, s.mapError(ctx, "get", err)
	}
	metrics.ZoneOperationsTotal.WithLabelValues("get").Inc()
	return zone, nil
}

func (s *ZoneService) List(ctx context.Context, skip, limit int) ([]domain.TrafficZone, error) {
	zones, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, s.mapError(ctx, "list", err)
	}
	metrics.ZoneOperationsTotal.WithLabelValues("list").Inc()
	return zones, nil
}

func (s *ZoneService) Update(ctx context.Context, id int64, update domain.ZoneUpdate) (domain.TrafficZone, error) {
	zone, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return domain.TrafficZone{}, s.mapError(ctx, "update", err)
	}
	metrics.ZoneOperationsTotal.WithLabelValues("update").Inc()
	return zone, nil
}

func (s *ZoneService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(ctx, "delete", err)
	}
	metrics.ZoneOperationsTotal.WithLabelValues("delete").Inc()
	return nil
}

func (s *ZoneService) mapError(ctx context.Context, operation string, err error) error {
	switch {
	case errors.Is(err, repository.ErrZoneNotFound):
		return ErrZoneNotFound
	case errors.Is(err, repository.ErrZoneAlreadyExists):
		return ErrZoneNameTaken
	default:
		s.log.WithFields(ctx, logger.Fields{
			"operation": operation,
			"action":    "zone_repo_error",
		}).Errorf("zone %s failed: %v", operation, err)
		return err
	}
}
