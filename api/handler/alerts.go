package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shopcore/inventory/internal/infrastructure/journal"
	"github.com/shopcore/inventory/pkg/httpcontext"
	"github.com/shopcore/inventory/usecase/stock"
)

type AlertsHandler struct {
	baseHandler
	aggregator *stock.Aggregator
	journal    *journal.Store
}

func NewAlertsHandler(aggregator *stock.Aggregator, jnl *journal.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		aggregator:  aggregator,
		journal:     jnl,
	}
}

// @Summary Current stock alert snapshot
// @Tags alerts
// @Router /api/v1/alerts [get]
func (h *AlertsHandler) Get(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.aggregator.Snapshot())
}

// @Summary Force an alert refresh
// @Tags alerts
// @Router /api/v1/alerts/refresh [post]
func (h *AlertsHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.aggregator.Refresh(stdCtx); err != nil {
		// The snapshot endpoint keeps serving the last good state; the
		// refresh error is informational.
		h.logger.Warn("manual alert refresh failed", zap.Error(err))
	}
	h.respondSuccess(ctx, http.StatusOK, h.aggregator.Snapshot())
}

// @Summary Recent alert journal entries
// @Tags alerts
// @Router /api/v1/alerts/journal [get]
func (h *AlertsHandler) Journal(ctx *fasthttp.RequestCtx) {
	limit := 50
	if v, err := strconv.Atoi(string(ctx.QueryArgs().Peek("limit"))); err == nil && v > 0 {
		limit = v
	}

	entries, err := h.journal.Recent(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
