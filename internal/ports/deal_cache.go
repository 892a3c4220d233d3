package ports

import (
	"context"

	"github.com/Gunvolt24/fx_deals/internal/domain"
)

// DealCache — интерфейс кэша сделок.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type DealCache interface {
	// Get — вернуть сделку по dealId; (deal, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, dealID string) (*domain.Deal, bool)

	// Set — сохранить сделку в кэше.
	Set(ctx context.Context, deal *domain.Deal) error

	// WarmUp — массовая загрузка кэша (например, при старте).
	WarmUp(ctx context.Context, deals []*domain.Deal) error
}
