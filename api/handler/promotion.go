package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shopcore/inventory/api/transport"
	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/pkg/httpcontext"
	promotionUC "github.com/shopcore/inventory/usecase/promotion"
)

type PromotionHandler struct {
	baseHandler
	manager *promotionUC.Manager
}

func NewPromotionHandler(manager *promotionUC.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *PromotionHandler {
	return &PromotionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		manager:     manager,
	}
}

// @Summary Activate promotion
// @Tags promotions
// @Router /api/v1/promotions/{id}/activate [post]
func (h *PromotionHandler) Activate(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}

	var req transport.ActivatePromotionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	input, err := parseActivation(req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.manager.Activate(stdCtx, id, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, product)
}

// @Summary Deactivate promotion
// @Tags promotions
// @Router /api/v1/promotions/{id}/deactivate [post]
func (h *PromotionHandler) Deactivate(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.manager.Deactivate(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, product)
}

// @Summary Sweep expired promotions
// @Tags promotions
// @Router /api/v1/promotions/sweep [post]
func (h *PromotionHandler) Sweep(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report := h.manager.SweepExpired(stdCtx, time.Now())
	switch report.Status {
	case promotionUC.SweepStatusFailed:
		h.respondJSON(ctx, http.StatusBadGateway, transport.NewError(string(domain.ErrCodeStore), "sweep query failed", report))
	case promotionUC.SweepStatusPartial:
		h.respondJSON(ctx, http.StatusOK, transport.NewError(string(domain.ErrCodePartial), "some products failed", report))
	default:
		h.respondSuccess(ctx, http.StatusOK, report)
	}
}

func (h *PromotionHandler) productID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing product id", nil))
		return "", false
	}
	return id, true
}

func parseActivation(req transport.ActivatePromotionRequest) (promotionUC.ActivationInput, error) {
	var input promotionUC.ActivationInput

	if req.ExpiryDate == "" {
		return input, domain.NewError(domain.ErrCodeInvalid, "expiry_date is required")
	}
	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		return input, domain.WrapError(domain.ErrCodeInvalid, "invalid expiry_date", err)
	}
	input.ExpiryDate = expiry

	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return input, domain.WrapError(domain.ErrCodeInvalid, "invalid start_date", err)
		}
		input.StartDate = &start
	}

	input.OriginalPrice = req.OriginalPrice
	input.SalePrice = req.SalePrice
	return input, nil
}
