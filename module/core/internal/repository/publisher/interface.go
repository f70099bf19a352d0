package publisher

import (
	"context"

	"github.com/egebilir/ship-display/module/core/domain"
)

type PortAlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.PortAlert) error
}

type PositionPublisher interface {
	PublishPosition(ctx context.Context, rec *domain.PositionRecord) error
}
