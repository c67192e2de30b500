//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-order-bot/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type menuItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type itemPopularity struct {
	Item   string `json:"item"`
	Orders int    `json:"orders"`
}

type stats struct {
	TotalOrders int              `json:"totalOrders"`
	Revenue     int64            `json:"revenue"`
	TopItems    []itemPopularity `json:"topItems"`
}

type order struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Items       string `json:"items"`
	Total       int64  `json:"total"`
}

type apiError struct {
	status int
	title  string
}

func (e apiError) Error() string { return fmt.Sprintf("%s (status %d)", e.title, e.status) }

func TestDashboardContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	orderMatcher := matchers.Map{
		"id":          matchers.Regex("0d7f5a9e-3c1b-4f7e-9a36-2f5b8c1d4e6a", "^[0-9a-f-]{36}$"),
		"userId":      matchers.Like("42"),
		"displayName": matchers.Like("Ivan"),
		"phoneNumber": matchers.Like("+1000"),
		"items":       matchers.Like("Plov x2, Tea x1"),
		"total":       matchers.Like(550),
		"placedAt":    matchers.Like("2024-05-01T13:04:05Z"),
	}

	pact.AddInteraction().
		UponReceiving("a request for the menu").
		WithRequest("GET", "/v1/menu").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"name":  matchers.Like("Plov"),
				"price": matchers.Like(250),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersPlaced).
		UponReceiving("a request for order statistics").
		WithRequest("GET", "/v1/orders/stats").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"totalOrders": matchers.Like(pacttest.SeededOrders),
				"revenue":     matchers.Like(1650),
				"topItems": matchers.EachLike(matchers.Map{
					"item":   matchers.Like("Plov"),
					"orders": matchers.Like(3),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersPlaced).
		UponReceiving("a request for the two latest orders").
		WithRequest("GET", "/v1/orders/recent", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("n", matchers.S("2"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(orderMatcher, 2))
		})

	pact.AddInteraction().
		Given(pacttest.StateNoOrders).
		UponReceiving("a request for statistics of an empty ledger").
		WithRequest("GET", "/v1/orders/stats").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"totalOrders": matchers.Like(0),
				"revenue":     matchers.Like(0),
			})
		})

	pact.AddInteraction().
		UponReceiving("an event without a user id").
		WithRequest("POST", "/v1/events", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"text": matchers.S("/menu")})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/bad-request"),
				"title":  matchers.S("Bad Request"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newDashboardClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var menu []menuItem
		if err := client.get(ctx, "/v1/menu", &menu); err != nil {
			return fmt.Errorf("menu: %w", err)
		}
		if len(menu) == 0 || menu[0].Price <= 0 {
			return fmt.Errorf("unexpected menu %+v", menu)
		}

		var s stats
		if err := client.get(ctx, "/v1/orders/stats", &s); err != nil {
			return fmt.Errorf("stats: %w", err)
		}

		var recent []order
		if err := client.get(ctx, "/v1/orders/recent?n=2", &recent); err != nil {
			return fmt.Errorf("recent: %w", err)
		}
		if len(recent) != 2 {
			return fmt.Errorf("expected 2 recent orders, got %d", len(recent))
		}

		err := client.post(ctx, "/v1/events", map[string]string{"text": "/menu"})
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusBadRequest {
			return fmt.Errorf("expected 400 for an anonymous event, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type dashboardClient struct {
	baseURL    string
	httpClient *http.Client
}

func newDashboardClient(config pactconsumer.MockServerConfig) *dashboardClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &dashboardClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *dashboardClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *dashboardClient) post(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *dashboardClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var problem struct {
			Title string `json:"title"`
		}
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return apiError{status: res.StatusCode, title: problem.Title}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
