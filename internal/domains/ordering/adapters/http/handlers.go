// Package httpadapter exposes the ordering conversation over HTTP, for
// channels that push chat events as webhooks instead of being polled.
package httpadapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/http/mapper"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
	apierrors "github.com/Apurer/go-order-bot/internal/shared/errors"
)

// EventHandler answers one inbound chat event.
type EventHandler interface {
	Handle(ctx context.Context, ev application.Event) (application.Reply, error)
}

// OrderingAPI wires HTTP transport with the ordering conversation and engine.
type OrderingAPI struct {
	events    EventHandler
	service   ports.Service
	responder *apierrors.Responder
}

func NewOrderingAPI(events EventHandler, service ports.Service) *OrderingAPI {
	return &OrderingAPI{events: events, service: service, responder: NewResponder()}
}

// NewResponder maps ordering errors to problem details.
func NewResponder() *apierrors.Responder {
	return apierrors.NewResponder(
		apierrors.Match(apierrors.ErrValidation, application.ErrInvalidInput),
		apierrors.Match(apierrors.ErrConflict, domain.ErrCheckoutInProgress, domain.ErrNoCheckout, domain.ErrEmptyCart),
		apierrors.Match(apierrors.ErrNotFound, domain.ErrItemNotInCart),
		apierrors.Match(apierrors.ErrUnavailable, application.ErrPersistFailed, context.DeadlineExceeded),
	)
}

// Register mounts the ordering routes on r.
func (api *OrderingAPI) Register(r gin.IRouter) {
	r.POST("/v1/events", api.PostEvent)
	r.GET("/v1/menu", api.GetMenu)
	r.GET("/v1/sessions/:userId/cart", api.GetCart)
}

// Post /v1/events
// Feed one chat message into the conversation
func (api *OrderingAPI) PostEvent(c *gin.Context) {
	var payload mapper.EventRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(payload.UserID) == "" {
		api.responder.ValidationFailed(c, map[string]string{"userId": "must not be blank"})
		return
	}
	reply, err := api.events.Handle(c.Request.Context(), mapper.ToEvent(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromReply(reply))
}

// Get /v1/menu
// List the catalog
func (api *OrderingAPI) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.FromMenu(api.service.Menu(c.Request.Context())))
}

// Get /v1/sessions/:userId/cart
// Show the priced cart and checkout state of a user
func (api *OrderingAPI) GetCart(c *gin.Context) {
	sender := domain.Sender{ID: domain.UserID(c.Param("userId"))}
	totals, err := api.service.ViewCart(c.Request.Context(), sender)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	state, err := api.service.State(c.Request.Context(), sender)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromCart(sender.ID, totals, state))
}
