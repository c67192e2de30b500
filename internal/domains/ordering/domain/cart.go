package domain

import (
	"iter"
)

// Pricer resolves unit prices for cart lines.
type Pricer interface {
	Price(name string) (int64, bool)
}

// Cart maps item names to quantities. A line is never stored with a
// quantity below one; lines keep the order in which they were first added.
type Cart struct {
	qty   map[string]int
	order []string
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{qty: map[string]int{}}
}

// Add increments the quantity of item by one and returns the new quantity.
func (c *Cart) Add(item string) int {
	c.ensure()
	if _, ok := c.qty[item]; !ok {
		c.order = append(c.order, item)
	}
	c.qty[item]++
	return c.qty[item]
}

// RemoveOne decrements item, dropping the line when it reaches zero.
func (c *Cart) RemoveOne(item string) (int, error) {
	q, ok := c.qty[item]
	if !ok {
		return 0, ErrItemNotInCart
	}
	if q > 1 {
		c.qty[item] = q - 1
		return q - 1, nil
	}
	delete(c.qty, item)
	for i, name := range c.order {
		if name == item {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return 0, nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.qty = map[string]int{}
	c.order = nil
}

// Quantity returns the quantity of item, zero when absent.
func (c *Cart) Quantity(item string) int {
	return c.qty[item]
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.order)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// Items yields item names and quantities in display order.
func (c *Cart) Items() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for _, name := range c.order {
			if !yield(name, c.qty[name]) {
				return
			}
		}
	}
}

// Totals prices every line. Items unknown to prices contribute zero; the
// engine never admits such lines.
func (c *Cart) Totals(prices Pricer) CartTotals {
	lines := make([]LineSummary, 0, len(c.order))
	var total int64
	for name, q := range c.Items() {
		unit, _ := prices.Price(name)
		line := LineSummary{Item: name, Quantity: q, UnitPrice: unit, LineTotal: unit * int64(q)}
		total += line.LineTotal
		lines = append(lines, line)
	}
	return CartTotals{lines: lines, Total: total}
}

// Clone returns an independent copy.
func (c *Cart) Clone() *Cart {
	out := NewCart()
	for name, q := range c.Items() {
		out.order = append(out.order, name)
		out.qty[name] = q
	}
	return out
}

func (c *Cart) ensure() {
	if c.qty == nil {
		c.qty = map[string]int{}
	}
}

// LineSummary is one priced cart line.
type LineSummary struct {
	Item      string
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// CartTotals is a priced snapshot of a cart, detached from the session.
type CartTotals struct {
	lines []LineSummary
	Total int64
}

// Lines yields the priced lines; the sequence can be ranged over repeatedly.
func (t CartTotals) Lines() iter.Seq[LineSummary] {
	return func(yield func(LineSummary) bool) {
		for _, line := range t.lines {
			if !yield(line) {
				return
			}
		}
	}
}

// Len reports the number of lines.
func (t CartTotals) Len() int {
	return len(t.lines)
}

// IsEmpty reports whether the snapshot has no lines.
func (t CartTotals) IsEmpty() bool {
	return len(t.lines) == 0
}
