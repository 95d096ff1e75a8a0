package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shopcore/inventory/api/transport"
	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/pkg/httpcontext"
	thresholdsUC "github.com/shopcore/inventory/usecase/thresholds"
)

type ThresholdsHandler struct {
	baseHandler
	service *thresholdsUC.Service
}

func NewThresholdsHandler(service *thresholdsUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ThresholdsHandler {
	return &ThresholdsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		service:     service,
	}
}

// @Summary Current global thresholds
// @Tags thresholds
// @Router /api/v1/thresholds [get]
func (h *ThresholdsHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	thresholds, err := h.service.Get(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, thresholds)
}

// @Summary Update global thresholds
// @Tags thresholds
// @Router /api/v1/thresholds [put]
func (h *ThresholdsHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.ThresholdsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	thresholds := domain.Thresholds{Low: req.Low, Critical: req.Critical}
	if err := h.service.Update(stdCtx, thresholds); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, thresholds)
}

// @Summary Apply global thresholds to products
// @Tags thresholds
// @Router /api/v1/thresholds/apply [post]
func (h *ThresholdsHandler) Apply(ctx *fasthttp.RequestCtx) {
	var req transport.ApplyThresholdsRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.service.ApplyGlobal(stdCtx, req.OverwriteExisting)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if report.Status == thresholdsUC.ApplyStatusPartial {
		h.respondJSON(ctx, http.StatusOK, transport.NewError(string(domain.ErrCodePartial), "some products failed", report))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
