// Package httpadapter serves order reports to operator dashboards.
package httpadapter

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-bot/internal/domains/reporting/adapters/http/mapper"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/application"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/ports"
	apierrors "github.com/Apurer/go-order-bot/internal/shared/errors"
)

// ReportingAPI wires HTTP transport with the reporting service.
type ReportingAPI struct {
	service   ports.Service
	responder *apierrors.Responder
}

func NewReportingAPI(service ports.Service) *ReportingAPI {
	return &ReportingAPI{
		service:   service,
		responder: apierrors.NewResponder(apierrors.Match(apierrors.ErrUnavailable, application.ErrLedgerUnavailable)),
	}
}

// Register mounts the reporting routes on r.
func (api *ReportingAPI) Register(r gin.IRouter) {
	r.GET("/v1/orders", api.ListOrders)
	r.GET("/v1/orders/recent", api.RecentOrders)
	r.GET("/v1/orders/stats", api.GetStats)
}

// Get /v1/orders
// List every persisted order, oldest first
func (api *ReportingAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.All(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrders(orders))
}

// Get /v1/orders/recent?n=
// List the latest orders
func (api *ReportingAPI) RecentOrders(c *gin.Context) {
	n := 0
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.responder.ValidationFailed(c, map[string]string{"n": "must be an integer"})
			return
		}
		n = parsed
	}
	orders, err := api.service.Recent(c.Request.Context(), n)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrders(orders))
}

// Get /v1/orders/stats
// Summarise the order ledger
func (api *ReportingAPI) GetStats(c *gin.Context) {
	stats, err := api.service.Stats(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
