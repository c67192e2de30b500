package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

// Event is one inbound text message from a customer.
type Event struct {
	Sender domain.Sender
	Text   string
}

// Reply is the plain-text answer to an Event, in sending order.
type Reply struct {
	Messages []string
	State    domain.CheckoutState
}

const (
	CurrencySign = "₽"

	helpText = "Commands:\n" +
		"/menu - show the menu\n" +
		"/add <item> - put an item in the cart\n" +
		"/remove <item> - take one item out of the cart\n" +
		"/cart - show the cart\n" +
		"/clear - empty the cart\n" +
		"/order - check out\n" +
		"/hours - opening and delivery hours\n" +
		"/halal - our halal certificate\n" +
		"/cancel - stop checking out"

	hoursText = "Opening and delivery hours:\n\n" +
		"Monday-Friday: 10:00 - 23:00\n" +
		"Saturday-Sunday: 11:00 - 00:00\n\n" +
		"Delivery takes 30-60 minutes"

	halalText = "Our kitchen is halal certified.\n" +
		"Certificate: https://sun9-37.userapi.com/impf/c824604/v824604537/458ae/s_dKkTlomFw.jpg"

	deliveryNotice = "Expect delivery within an hour!"
)

var fieldPrompts = map[domain.CheckoutState]string{
	domain.StateAwaitingName:    "To place the order, enter your name:",
	domain.StateAwaitingAddress: "Great! Now enter the delivery address:",
	domain.StateAwaitingPhone:   "Almost done! Now enter your phone number:",
}

// Conversation routes chat text to the session engine and renders replies.
// Events of one user are handled one at a time, so the routing decision and
// the operation it picks see the same state.
type Conversation struct {
	service ports.Service
	gate    userGate
}

func NewConversation(service ports.Service) *Conversation {
	return &Conversation{service: service}
}

// Handle applies one event. Customer mistakes and persistence failures are
// answered in the reply; only unexpected errors are returned.
func (c *Conversation) Handle(ctx context.Context, ev Event) (Reply, error) {
	if ev.Sender.ID == "" {
		return Reply{}, mapError(domain.ErrInvalidUserID)
	}
	leave, err := c.gate.enter(ctx, ev.Sender.ID)
	if err != nil {
		return Reply{}, err
	}
	defer leave()
	return c.route(ctx, ev)
}

func (c *Conversation) route(ctx context.Context, ev Event) (Reply, error) {
	state, err := c.service.State(ctx, ev.Sender)
	if err != nil {
		return Reply{}, err
	}
	if state.InCheckout() {
		return c.handleCheckout(ctx, ev)
	}

	cmd, arg := parseCommand(ev.Text)
	var messages []string
	switch cmd {
	case "/start":
		messages = []string{"Welcome to our restaurant!\n\n" + helpText}
	case "/help":
		messages = []string{helpText}
	case "/hours":
		messages = []string{hoursText}
	case "/halal":
		messages = []string{halalText}
	case "/menu":
		messages = []string{c.renderMenu(ctx)}
	case "/cart":
		totals, err := c.service.ViewCart(ctx, ev.Sender)
		if err != nil {
			return c.fail(ctx, ev, err)
		}
		messages = []string{renderCart(totals)}
	case "/add":
		if arg == "" {
			messages = []string{"Which item? For example: /add Plov"}
			break
		}
		qty, err := c.service.AddItem(ctx, ev.Sender, arg)
		if err != nil {
			return c.fail(ctx, ev, err)
		}
		messages = []string{fmt.Sprintf("Added to the cart. You now have %d x %s.", qty, c.itemName(ctx, arg))}
	case "/remove":
		if arg == "" {
			messages = []string{"Which item? For example: /remove Plov"}
			break
		}
		left, err := c.service.RemoveOne(ctx, ev.Sender, arg)
		if err != nil {
			return c.fail(ctx, ev, err)
		}
		messages = []string{fmt.Sprintf("Removed one %s. %d left in the cart.", c.itemName(ctx, arg), left)}
	case "/clear":
		if err := c.service.ClearCart(ctx, ev.Sender); err != nil {
			return c.fail(ctx, ev, err)
		}
		messages = []string{"The cart is empty now."}
	case "/order":
		next, err := c.service.BeginCheckout(ctx, ev.Sender)
		if err != nil {
			return c.fail(ctx, ev, err)
		}
		messages = []string{fieldPrompts[next]}
	case "/cancel":
		messages = []string{"There is no checkout to cancel."}
	case "":
		// a bare item name adds it
		qty, err := c.service.AddItem(ctx, ev.Sender, ev.Text)
		if errors.Is(err, domain.ErrUnknownItem) {
			messages = []string{"Sorry, I did not understand that.\n\n" + helpText}
			break
		}
		if err != nil {
			return c.fail(ctx, ev, err)
		}
		messages = []string{fmt.Sprintf("Added to the cart. You now have %d x %s.", qty, c.itemName(ctx, ev.Text))}
	default:
		messages = []string{"Unknown command.\n\n" + helpText}
	}
	return c.reply(ctx, ev, messages...)
}

func (c *Conversation) handleCheckout(ctx context.Context, ev Event) (Reply, error) {
	if cmd, _ := parseCommand(ev.Text); cmd == "/cancel" {
		if err := c.service.CancelCheckout(ctx, ev.Sender); err != nil {
			return c.fail(ctx, ev, err)
		}
		return c.reply(ctx, ev, "Checkout cancelled. Your cart is kept.")
	}

	result, err := c.service.SubmitField(ctx, ev.Sender, ev.Text)
	if err != nil {
		return c.fail(ctx, ev, err)
	}
	if result.Order != nil {
		return Reply{Messages: []string{renderConfirmation(result.Order)}, State: result.State}, nil
	}
	return Reply{Messages: []string{fieldPrompts[result.State]}, State: result.State}, nil
}

func (c *Conversation) fail(ctx context.Context, ev Event, err error) (Reply, error) {
	text, ok := explain(err)
	if !ok {
		return Reply{}, err
	}
	return c.reply(ctx, ev, text)
}

func (c *Conversation) reply(ctx context.Context, ev Event, messages ...string) (Reply, error) {
	state, err := c.service.State(ctx, ev.Sender)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Messages: messages, State: state}, nil
}

// itemName returns the menu spelling of what the customer typed.
func (c *Conversation) itemName(ctx context.Context, input string) string {
	input = strings.TrimSpace(input)
	for _, item := range c.service.Menu(ctx) {
		if strings.EqualFold(item.Name, input) {
			return item.Name
		}
	}
	return input
}

func (c *Conversation) renderMenu(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("Our menu:\n\n")
	for _, item := range c.service.Menu(ctx) {
		fmt.Fprintf(&b, "%s - %d%s\n", item.Name, item.Price, CurrencySign)
	}
	b.WriteString("\nAdd an item with /add <item>")
	return b.String()
}

func renderCart(totals domain.CartTotals) string {
	if totals.IsEmpty() {
		return "Your cart is empty"
	}
	var b strings.Builder
	b.WriteString("Your cart:\n\n")
	for line := range totals.Lines() {
		fmt.Fprintf(&b, "%s x%d = %d%s\n", line.Item, line.Quantity, line.LineTotal, CurrencySign)
	}
	fmt.Fprintf(&b, "\nTotal: %d%s", totals.Total, CurrencySign)
	return b.String()
}

func renderConfirmation(order *domain.Order) string {
	var b strings.Builder
	b.WriteString("Your order is placed!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", order.Customer.DisplayName)
	fmt.Fprintf(&b, "Phone: %s\n", order.Customer.PhoneNumber)
	fmt.Fprintf(&b, "Address: %s\n\n", order.Customer.DeliveryAddress)
	b.WriteString("Order:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "- %s x%d = %d%s\n", line.Item, line.Quantity, line.LineTotal, CurrencySign)
	}
	fmt.Fprintf(&b, "\nTotal: %d%s\n\n", order.Total, CurrencySign)
	b.WriteString(deliveryNotice)
	return b.String()
}

func explain(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUnknownItem):
		return "There is no such item on the menu. See /menu.", true
	case errors.Is(err, domain.ErrItemNotInCart):
		return "That item is not in your cart.", true
	case errors.Is(err, domain.ErrEmptyCart):
		return "Your cart is empty! Add items from the /menu first.", true
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return "You are checking out right now. Finish it or send /cancel.", true
	case errors.Is(err, domain.ErrNoCheckout):
		return "There is no checkout in progress.", true
	case errors.Is(err, ErrPersistFailed):
		return "Something went wrong while saving your order. Please send your phone number again to retry.", true
	}
	return "", false
}

// parseCommand splits "/add@bot Plov" into "/add" and "Plov". Plain text
// yields an empty command.
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, arg, _ := strings.Cut(text, " ")
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}
