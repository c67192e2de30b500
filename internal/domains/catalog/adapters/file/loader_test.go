package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
)

func TestDecode_PreservesOrder(t *testing.T) {
	doc := `
items:
  - name: Tea
    price: 50
  - name: Plov
    price: 250
`
	c, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 2)
	require.Equal(t, "Tea", items[0].Name)
	require.Equal(t, int64(250), items[1].Price)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("items:\n  - name: Tea\n    cost: 5\n"))
	require.Error(t, err)
}

func TestDecode_ValidatesItems(t *testing.T) {
	_, err := Decode(strings.NewReader("items:\n  - name: Tea\n    price: 0\n"))
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.True(t, c.Contains("Shashlik"))
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - name: Samsa\n    price: 80\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	price, ok := c.Price("Samsa")
	require.True(t, ok)
	require.Equal(t, int64(80), price)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
