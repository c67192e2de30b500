//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-order-bot/test/pact"

	catalogdomain "github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
	orderinghttp "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/http"
	orderingmemory "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/memory"
	orderingobs "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/observability"
	orderingapp "github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	reportinghttp "github.com/Apurer/go-order-bot/internal/domains/reporting/adapters/http"
	reportingapp "github.com/Apurer/go-order-bot/internal/domains/reporting/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestOrderBotProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateNoOrders: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateOrdersPlaced: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.placeOrders(t, pacttest.SeededOrders)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// resettableLedger lets state handlers start from an empty ledger without
// rebuilding the router.
type resettableLedger struct {
	mu    sync.RWMutex
	inner *orderingmemory.OrderLedger
}

func (l *resettableLedger) Append(ctx context.Context, order *orderingdomain.Order) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.inner.Append(ctx, order)
}

func (l *resettableLedger) List(ctx context.Context) ([]*orderingdomain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.inner.List(ctx)
}

type contractProviderApp struct {
	ledger  *resettableLedger
	service *orderingapp.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	ledger := &resettableLedger{inner: orderingmemory.NewOrderLedger()}
	clock := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	engine := orderingapp.NewService(catalogdomain.Default(), orderingmemory.NewSessionStore(), ledger,
		orderingapp.WithClock(func() time.Time { return clock }))
	service := orderingobs.New(engine)

	router := gin.New()
	router.Use(gin.Recovery())
	orderinghttp.NewOrderingAPI(orderingapp.NewConversation(service), service).Register(router)
	reportinghttp.NewReportingAPI(reportingapp.NewService(ledger)).Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{ledger: ledger, service: engine, server: server}
}

func (a *contractProviderApp) reset() {
	a.ledger.mu.Lock()
	defer a.ledger.mu.Unlock()
	a.ledger.inner = orderingmemory.NewOrderLedger()
}

// placeOrders drives real checkouts so the ledger holds what customers produce.
func (a *contractProviderApp) placeOrders(t testing.TB, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		sender := orderingdomain.Sender{ID: orderingdomain.UserID("42"), Handle: "ivan"}
		for _, item := range []string{"Plov", "Plov", "Tea"} {
			_, err := a.service.AddItem(ctx, sender, item)
			require.NoError(t, err)
		}
		_, err := a.service.BeginCheckout(ctx, sender)
		require.NoError(t, err)
		for _, field := range []string{"Ivan", "Main St 1", "+1000"} {
			_, err := a.service.SubmitField(ctx, sender, field)
			require.NoError(t, err)
		}
	}
}
