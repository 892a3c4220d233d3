package ports

import (
	"context"

	"github.com/Gunvolt24/fx_deals/internal/domain"
)

// DealService — сценарии импорта и чтения сделок, которые нужны транспорту.
type DealService interface {
	ImportOne(ctx context.Context, req *domain.DealRequest) (*domain.Deal, error)
	ImportMany(ctx context.Context, reqs []domain.DealRequest) ([]*domain.Deal, error)
	ListAll(ctx context.Context) ([]*domain.Deal, error)
	RecentDeals(ctx context.Context, limit int) ([]*domain.Deal, error)
	GetDeal(ctx context.Context, dealID string) (*domain.Deal, error)
	CountDeals(ctx context.Context) (int64, error)
}
