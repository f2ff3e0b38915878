package catalog

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	products := Default()
	assert.Len(t, products, 15)

	ids := make(map[string]struct{})
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price > 0, "product %s has non-positive price", p.ID)
		assert.Contains(t, []string{"Electronics", "Accessories"}, p.Category)
		_, dup := ids[p.ID]
		assert.False(t, dup, "duplicate product id %s", p.ID)
		ids[p.ID] = struct{}{}
	}
}

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "catalog_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTempCatalog(t, `
products:
  - id: X001
    name: Test Gadget
    category: Electronics
    price: 10.50
  - id: X002
    name: Test Sleeve
    category: Accessories
    price: 5.25
`)

	products, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "X001", products[0].ID)
	assert.Equal(t, 10.50, products[0].Price)
	assert.Equal(t, "Accessories", products[1].Category)
}

func TestLoadFileRejectsBadCatalogs(t *testing.T) {
	_, err := LoadFile("/nonexistent/catalog.yaml")
	assert.Error(t, err)

	path := writeTempCatalog(t, "products: []")
	_, err = LoadFile(path)
	assert.Error(t, err)

	path = writeTempCatalog(t, `
products:
  - id: X001
    name: Free Gadget
    category: Electronics
    price: 0
`)
	_, err = LoadFile(path)
	assert.Error(t, err)

	path = writeTempCatalog(t, `
products:
  - id: X001
    name: A
    category: Electronics
    price: 1
  - id: X001
    name: B
    category: Electronics
    price: 2
`)
	_, err = LoadFile(path)
	assert.Error(t, err)
}
