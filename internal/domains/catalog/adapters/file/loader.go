package file

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
)

// menuFile is the on-disk catalog layout:
//
//	items:
//	  - name: Plov
//	    price: 250
type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

// Load reads a YAML catalog from path. An empty path yields the default menu.
func Load(path string) (*domain.Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode parses a YAML catalog document.
func Decode(r io.Reader) (*domain.Catalog, error) {
	var doc menuFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	items := make([]domain.Item, 0, len(doc.Items))
	for _, entry := range doc.Items {
		items = append(items, domain.Item{Name: entry.Name, Price: entry.Price})
	}
	return domain.New(items...)
}
