package ports

import (
	"context"

	"github.com/Gunvolt24/fx_deals/internal/domain"
)

// DealValidator — набор правил приёма сделки.
// Возвращает сообщения о нарушениях (пустой срез — сделка допустима);
// error — только если не удалось проверить уникальность через index.
type DealValidator interface {
	Validate(ctx context.Context, req *domain.DealRequest, index DealIndex) ([]string, error)
}
