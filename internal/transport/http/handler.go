package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/Gunvolt24/fx_deals/pkg/ctxmeta"
	"github.com/Gunvolt24/fx_deals/pkg/httpx"
)

// Тексты ответов об ошибках.
const (
	msgSingleRejected   = "Fx deal failed to be validated"
	msgBatchAllRejected = "All fx deals in the batch failed to be validated"
	msgBatchSomeSaved   = "Some fx deals in the batch failed to be validated"
	msgMalformedBody    = "malformed request body"
	msgInternal         = "internal server error"
	msgDealNotFound     = "deal not found"

	serviceName  = "FX Deals Data Warehouse"
	maxListLimit = 500
)

// Handler — HTTP-обработчики поверх ports.DealService.
type Handler struct {
	service ports.DealService
	log     ports.Logger
	timeout time.Duration // таймаут обработки запроса; 0 — без ограничения
}

// NewHandler — DI-конструктор.
func NewHandler(service ports.DealService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// requestContext — контекст запроса с таймаутом обработчика.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// importSingle — POST /api/v1/deals/import/single.
func (h *Handler) importSingle(c *gin.Context) {
	var req domain.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf(c.Request.Context(), "malformed single import body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMalformedBody})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()
	ctx = ctxmeta.WithDealID(ctx, req.DealID)

	deal, err := h.service.ImportOne(ctx, &req)
	if err != nil {
		var rejected *domain.SingleImportRejectedError
		if errors.As(err, &rejected) {
			c.JSON(http.StatusBadRequest, singleRejectedResponse{
				Error:        msgSingleRejected,
				RejectedDeal: rejected.Rejected,
			})
			return
		}
		h.internalError(ctx, c, "ImportOne", err)
		return
	}

	c.JSON(http.StatusCreated, deal)
}

// importBatch — POST /api/v1/deals/import/batch.
func (h *Handler) importBatch(c *gin.Context) {
	var reqs []domain.DealRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.log.Warnf(c.Request.Context(), "malformed batch import body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMalformedBody})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	saved, err := h.service.ImportMany(ctx, reqs)
	if err != nil {
		var rejected *domain.BatchImportRejectedError
		if errors.As(err, &rejected) {
			c.JSON(http.StatusBadRequest, newBatchRejectedResponse(rejected))
			return
		}
		h.internalError(ctx, c, "ImportMany", err)
		return
	}

	c.JSON(http.StatusCreated, nonNil(saved))
}

// listDeals — GET /api/v1/deals; с ?limit=N — последние N сделок, новые первыми.
func (h *Handler) listDeals(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var (
		deals []*domain.Deal
		err   error
	)
	if limit, ok := httpx.ParseLimit(c, maxListLimit); ok {
		deals, err = h.service.RecentDeals(ctx, limit)
	} else {
		deals, err = h.service.ListAll(ctx)
	}
	if err != nil {
		h.internalError(ctx, c, "ListDeals", err)
		return
	}

	c.JSON(http.StatusOK, nonNil(deals))
}

// getDeal — GET /api/v1/deals/:dealId.
func (h *Handler) getDeal(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	dealID := c.Param("dealId")
	ctx = ctxmeta.WithDealID(ctx, dealID)

	deal, err := h.service.GetDeal(ctx, dealID)
	if err != nil {
		h.internalError(ctx, c, "GetDeal", err)
		return
	}
	if deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgDealNotFound})
		return
	}

	c.JSON(http.StatusOK, deal)
}

// health — GET /health: доступность хранилища и число сделок.
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	total, err := h.service.CountDeals(ctx)
	if err != nil {
		h.log.Errorf(ctx, "health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, healthResponse{
			Status:   "DOWN",
			Service:  serviceName,
			Database: "Disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:     "UP",
		Service:    serviceName,
		Database:   "Connected",
		TotalDeals: &total,
	})
}

// internalError — 500 без подробностей для клиента, подробности только в лог.
func (h *Handler) internalError(ctx context.Context, c *gin.Context, op string, err error) {
	h.log.Errorf(ctx, "%s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

// nonNil — пустой список сериализуется как [], а не null.
func nonNil(deals []*domain.Deal) []*domain.Deal {
	if deals == nil {
		return []*domain.Deal{}
	}
	return deals
}
