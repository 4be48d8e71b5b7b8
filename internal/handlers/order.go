// internal/handlers/order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/i18n"
	"github.com/driprats/storefront-admin/internal/services"
	"github.com/driprats/storefront-admin/internal/utils"
)

type OrderHandler struct {
	orderService    *services.OrderService
	shippingService *services.ShippingService
}

func NewOrderHandler(orderService *services.OrderService, shippingService *services.ShippingService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		shippingService: shippingService,
	}
}

// GET /api/orders?status=&search=&limit=&lastKey=
func (h *OrderHandler) GetOrders(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	result, err := h.orderService.ListOrders(c.Request.Context(), services.ListOrdersParams{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Limit:   utils.GetPageLimit(c),
		LastKey: c.Query("lastKey"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInvalidStatus), nil)
		case errors.Is(err, utils.ErrInvalidCursor):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInvalidCursor), nil)
		default:
			logrus.WithError(err).Error("Failed to fetch orders")
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyOrderFetchFailed))
		}
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /api/orders/stats
func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	stats, err := h.shippingService.OrderStats(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch order stats")
		utils.EnvelopeFailure(c, http.StatusInternalServerError, i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderStatsFailed))
		return
	}
	utils.EnvelopeSuccess(c, stats)
}
