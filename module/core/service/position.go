package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/module/core/domain"
	"github.com/egebilir/ship-display/module/core/internal/repository/database"
	"github.com/egebilir/ship-display/module/core/internal/repository/publisher"
)

type positionSource interface {
	Position(ctx context.Context) (*domain.PositionRecord, error)
}

type portChecker interface {
	CheckAndAlert(ctx context.Context, rec *domain.PositionRecord) error
}

type broadcaster interface {
	Broadcast(rec *domain.PositionRecord)
}

// PositionService acquires the current position and hands it to every
// consumer. Consumer failures are logged; only acquisition errors reach the
// caller.
type PositionService struct {
	source    positionSource
	repo      database.PositionRepository
	publisher publisher.PositionPublisher
	ports     portChecker
	live      broadcaster
}

func NewPositionService(source positionSource, repo database.PositionRepository, pub publisher.PositionPublisher, ports portChecker, live broadcaster) *PositionService {
	return &PositionService{
		source:    source,
		repo:      repo,
		publisher: pub,
		ports:     ports,
		live:      live,
	}
}

func (s *PositionService) Current(ctx context.Context) (*domain.PositionRecord, error) {
	rec, err := s.source.Position(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		log.Error().Err(err).Msg("save position")
	}
	if err := s.publisher.PublishPosition(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("publish position")
	}
	if err := s.ports.CheckAndAlert(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("port check")
	}
	s.live.Broadcast(rec)

	return rec, nil
}

func (s *PositionService) Latest(ctx context.Context) (*domain.PositionRecord, error) {
	return s.repo.Latest(ctx)
}

func (s *PositionService) History(ctx context.Context, limit int) ([]domain.PositionRecord, error) {
	return s.repo.History(ctx, limit)
}
