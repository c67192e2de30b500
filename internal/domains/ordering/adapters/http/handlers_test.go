package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/http/mapper"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
	apierrors "github.com/Apurer/go-order-bot/internal/shared/errors"
)

type failingLedger struct{}

func (failingLedger) Append(context.Context, *domain.Order) error { return errors.New("disk full") }

func newRouter(t *testing.T, orders ports.OrderGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := application.NewService(catalogdomain.Default(), memory.NewSessionStore(), orders)
	router := gin.New()
	NewOrderingAPI(application.NewConversation(svc), svc).Register(router)
	return router
}

func postEvent(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPostEvent_DrivesConversation(t *testing.T) {
	router := newRouter(t, memory.NewOrderLedger())

	for _, text := range []string{"/add Plov", "plov", "Tea"} {
		rec := postEvent(t, router, `{"userId":"42","handle":"ivan","text":"`+text+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postEvent(t, router, `{"userId":"42","text":"/order"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[mapper.EventResponse](t, rec)
	require.Equal(t, "awaiting_name", resp.State)
	require.NotEmpty(t, resp.Messages)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/42/cart", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[mapper.Cart](t, rec)
	require.Equal(t, int64(550), cart.Total)
	require.Equal(t, "awaiting_name", cart.State)
	require.Equal(t, []mapper.CartLine{
		{Item: "Plov", Quantity: 2, UnitPrice: 250, LineTotal: 500},
		{Item: "Tea", Quantity: 1, UnitPrice: 50, LineTotal: 50},
	}, cart.Lines)
}

func TestPostEvent_RejectsBadPayloads(t *testing.T) {
	router := newRouter(t, memory.NewOrderLedger())

	rec := postEvent(t, router, `{"text":"/menu"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	rec = postEvent(t, router, `{"userId":"  ","text":"/menu"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeValidation, problem.Type)

	rec = postEvent(t, router, `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostEvent_PersistFailureIsAnsweredInChat(t *testing.T) {
	router := newRouter(t, failingLedger{})
	for _, text := range []string{"/add Samsa", "/order", "Ivan", "Main St 1"} {
		require.Equal(t, http.StatusOK, postEvent(t, router, `{"userId":"7","text":"`+text+`"}`).Code)
	}
	rec := postEvent(t, router, `{"userId":"7","text":"+1000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[mapper.EventResponse](t, rec)
	require.Equal(t, "awaiting_phone", resp.State)
	require.Contains(t, resp.Messages[0], "retry")
}

func TestGetMenu(t *testing.T) {
	router := newRouter(t, memory.NewOrderLedger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/menu", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]mapper.MenuItem](t, rec)
	require.Len(t, items, len(catalogdomain.DefaultItems))
	require.Equal(t, mapper.MenuItem{Name: "Plov", Price: 250}, items[0])
}

func TestResponder_MapsEngineErrors(t *testing.T) {
	cases := map[error]int{
		application.ErrInvalidInput:        http.StatusBadRequest,
		domain.ErrCheckoutInProgress:       http.StatusConflict,
		domain.ErrItemNotInCart:            http.StatusNotFound,
		application.ErrPersistFailed:       http.StatusServiceUnavailable,
		errors.New("something unexpected"): http.StatusInternalServerError,
	}
	gin.SetMode(gin.TestMode)
	for err, want := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		NewResponder().RespondError(c, err)
		require.Equal(t, want, rec.Code, err.Error())
	}
}
