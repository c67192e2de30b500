package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:       uuid.MustParse("7d3f2c1e-8a4b-4c5d-9e6f-0a1b2c3d4e5f"),
		UserID:   "42",
		Handle:   "ivan",
		Customer: domain.Profile{DisplayName: "Ivan", DeliveryAddress: "Main St 1", PhoneNumber: "+1000"},
		Lines: []domain.OrderLine{
			{Item: "Plov", Quantity: 2, UnitPrice: 250, LineTotal: 500},
			{Item: "Tea", Quantity: 1, UnitPrice: 50, LineTotal: 50},
		},
		Total:    550,
		PlacedAt: time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC),
	}
}

func TestFormatOrder(t *testing.T) {
	text := FormatOrder(sampleOrder())
	require.Equal(t, "New order!\n\n"+
		"Name: Ivan\n"+
		"Phone: +1000\n"+
		"Address: Main St 1\n"+
		"Order: Plov x2, Tea x1\n"+
		"Total: 550\n"+
		"User ID: 42\n"+
		"Username: @ivan\n"+
		"Date: 2024-05-01 13:04:05", text)
}

type fakeBot struct {
	to   tele.Recipient
	what interface{}
	err  error
	wait chan struct{}
}

func (f *fakeBot) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if f.wait != nil {
		<-f.wait
	}
	f.to, f.what = to, what
	return &tele.Message{}, f.err
}

func TestTelegram_SendsToAdminChat(t *testing.T) {
	bot := &fakeBot{}
	require.NoError(t, NewTelegram(bot, -100123).Notify(context.Background(), sampleOrder()))
	require.Equal(t, "-100123", bot.to.Recipient())
	require.True(t, strings.HasPrefix(bot.what.(string), "New order!"))
}

func TestTelegram_ReturnsSendError(t *testing.T) {
	bot := &fakeBot{err: errors.New("forbidden")}
	require.EqualError(t, NewTelegram(bot, 1).Notify(context.Background(), sampleOrder()), "forbidden")
}

func TestTelegram_HonoursContext(t *testing.T) {
	bot := &fakeBot{wait: make(chan struct{})}
	defer close(bot.wait)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, NewTelegram(bot, 1).Notify(ctx, sampleOrder()), context.DeadlineExceeded)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func TestKafka_PublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	order := sampleOrder()
	require.NoError(t, NewKafka(w).Notify(context.Background(), order))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, order.ID.String(), string(msg.Key))
	require.Equal(t, EventOrderPlaced, string(msg.Headers[0].Value))

	var event OrderPlacedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "Plov x2, Tea x1", event.Items)
	require.Equal(t, int64(550), event.Total)
	require.Equal(t, "42", event.UserID)
}

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) Notify(context.Context, *domain.Order) error {
	c.calls++
	return c.err
}

func TestFanout_ContinuesPastFailures(t *testing.T) {
	failing := &countingNotifier{err: errors.New("down")}
	ok := &countingNotifier{}
	err := Fanout{failing, nil, ok}.Notify(context.Background(), sampleOrder())
	require.ErrorContains(t, err, "down")
	require.Equal(t, 1, failing.calls)
	require.Equal(t, 1, ok.calls)

	require.NoError(t, Fanout{}.Notify(context.Background(), sampleOrder()))
}
