package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCatalog  = errors.New("catalog must contain at least one item")
	ErrEmptyItemName = errors.New("item name is required")
	ErrInvalidPrice  = errors.New("item price must be greater than zero")
	ErrDuplicateItem = errors.New("item is listed more than once")
)

// Item is a purchasable menu entry. Prices are whole currency units.
type Item struct {
	Name  string
	Price int64
}

// Catalog is the immutable menu. Lookups are exact on the canonical name;
// Resolve additionally accepts case-insensitive input from chat users.
type Catalog struct {
	items  []Item
	byName map[string]int
	folded map[string]int
}

// DefaultItems is the menu served when no catalog file is configured.
var DefaultItems = []Item{
	{Name: "Plov", Price: 250},
	{Name: "Shashlik", Price: 300},
	{Name: "Lagman", Price: 200},
	{Name: "Samsa", Price: 80},
	{Name: "Vegetable Salad", Price: 150},
	{Name: "Tea", Price: 50},
}

// New validates items and builds a catalog preserving their order.
func New(items ...Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		items:  make([]Item, 0, len(items)),
		byName: make(map[string]int, len(items)),
		folded: make(map[string]int, len(items)),
	}
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, ErrEmptyItemName
		}
		if item.Price <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, name)
		}
		key := strings.ToLower(name)
		if _, exists := c.folded[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, name)
		}
		c.byName[name] = len(c.items)
		c.folded[key] = len(c.items)
		c.items = append(c.items, Item{Name: name, Price: item.Price})
	}
	return c, nil
}

// Default returns the built-in menu.
func Default() *Catalog {
	c, err := New(DefaultItems...)
	if err != nil {
		panic(err)
	}
	return c
}

// Price returns the unit price of the named item.
func (c *Catalog) Price(name string) (int64, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return 0, false
	}
	return c.items[idx].Price, true
}

// Contains reports whether name is an exact catalog entry.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Resolve maps user-supplied text to the canonical item name.
func (c *Catalog) Resolve(input string) (string, bool) {
	idx, ok := c.folded[strings.ToLower(strings.TrimSpace(input))]
	if !ok {
		return "", false
	}
	return c.items[idx].Name, true
}

// Items returns a copy of the menu in listing order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
