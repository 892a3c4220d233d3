package rest

import "github.com/Gunvolt24/fx_deals/internal/domain"

// singleRejectedResponse — тело 400 для одиночного импорта.
type singleRejectedResponse struct {
	Error        string              `json:"error"`
	RejectedDeal domain.RejectedDeal `json:"rejectedDeal"`
}

// batchRejectedResponse — тело 400 для пакета: отказы и (если есть) сохранённые сделки.
type batchRejectedResponse struct {
	Error         string                `json:"error"`
	RejectedDeals []domain.RejectedDeal `json:"rejectedDeals"`
	SavedDeals    []*domain.Deal        `json:"savedDeals,omitempty"`
}

func newBatchRejectedResponse(e *domain.BatchImportRejectedError) batchRejectedResponse {
	msg := msgBatchSomeSaved
	if len(e.Accepted) == 0 {
		msg = msgBatchAllRejected
	}
	return batchRejectedResponse{
		Error:         msg,
		RejectedDeals: e.Rejected,
		SavedDeals:    e.Accepted,
	}
}

// healthResponse — тело /health; totalDeals есть только при доступном хранилище.
type healthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Database   string `json:"database"`
	TotalDeals *int64 `json:"totalDeals,omitempty"`
}
