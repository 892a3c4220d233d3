package ports

import (
	"context"

	"github.com/Gunvolt24/fx_deals/internal/domain"
)

// DealIndex — индекс уникальности dealId (единственное, что нужно валидатору от хранилища).
type DealIndex interface {
	Exists(ctx context.Context, dealID string) (bool, error)
}

// DealRepository — хранилище сделок, ключ — dealId.
// Save обязан отвергать повторный dealId ошибкой domain.ErrDealExists.
type DealRepository interface {
	DealIndex
	Save(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	GetByID(ctx context.Context, dealID string) (*domain.Deal, error)
	FindAll(ctx context.Context) ([]*domain.Deal, error)
	LastN(ctx context.Context, n int) ([]*domain.Deal, error)
	Count(ctx context.Context) (int64, error)
}
