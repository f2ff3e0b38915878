package catalog

import (
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Product is an immutable catalog entry. Created once at generator
// construction and never mutated.
type Product struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Price    float64 `json:"price" yaml:"price"`
}

// Default returns the built-in demo catalog.
func Default() []Product {
	return []Product{
		{ID: "P001", Name: "Wireless Headphones", Category: "Electronics", Price: 79.99},
		{ID: "P002", Name: "Smart Watch", Category: "Electronics", Price: 199.99},
		{ID: "P003", Name: "Laptop Stand", Category: "Accessories", Price: 34.99},
		{ID: "P004", Name: "USB-C Cable", Category: "Accessories", Price: 12.99},
		{ID: "P005", Name: "Mechanical Keyboard", Category: "Electronics", Price: 129.99},
		{ID: "P006", Name: "Ergonomic Mouse", Category: "Electronics", Price: 49.99},
		{ID: "P007", Name: "Phone Case", Category: "Accessories", Price: 19.99},
		{ID: "P008", Name: "Screen Protector", Category: "Accessories", Price: 9.99},
		{ID: "P009", Name: "Portable Charger", Category: "Electronics", Price: 39.99},
		{ID: "P010", Name: "Bluetooth Speaker", Category: "Electronics", Price: 89.99},
		{ID: "P011", Name: "Webcam HD", Category: "Electronics", Price: 69.99},
		{ID: "P012", Name: "Desk Lamp", Category: "Accessories", Price: 29.99},
		{ID: "P013", Name: "Monitor 27\"", Category: "Electronics", Price: 299.99},
		{ID: "P014", Name: "Laptop Sleeve", Category: "Accessories", Price: 24.99},
		{ID: "P015", Name: "Cable Organizer", Category: "Accessories", Price: 14.99},
	}
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// LoadFile reads a product catalog from a YAML file. Every product must
// carry a non-empty id and a positive price.
func LoadFile(path string) ([]Product, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file %s", path)
	}

	var parsed catalogFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog file %s", path)
	}
	if len(parsed.Products) == 0 {
		return nil, errors.Errorf("catalog file %s has no products", path)
	}

	seen := make(map[string]struct{}, len(parsed.Products))
	for _, p := range parsed.Products {
		if p.ID == "" {
			return nil, errors.Errorf("catalog file %s has a product without id", path)
		}
		if p.Price <= 0 {
			return nil, errors.Errorf("product %s has non-positive price %f", p.ID, p.Price)
		}
		if _, exists := seen[p.ID]; exists {
			return nil, errors.Errorf("duplicate product id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return parsed.Products, nil
}
