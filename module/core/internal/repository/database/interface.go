package database

import (
	"context"

	"github.com/egebilir/ship-display/module/core/domain"
)

type PositionRepository interface {
	Insert(ctx context.Context, rec *domain.PositionRecord) error
	Latest(ctx context.Context) (*domain.PositionRecord, error)
	History(ctx context.Context, limit int) ([]domain.PositionRecord, error)
}
