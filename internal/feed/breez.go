package feed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"climaprj/internal/model"
)

const BreezName = "breez.ru"

//go:embed breez.yaml
var defaultDocument []byte

// Record is one upstream listing as published in the feed.
type Record struct {
	Brand  string          `yaml:"brand" validate:"required"`
	Model  string          `yaml:"model" validate:"required"`
	Series string          `yaml:"series"`
	Power  decimal.Decimal `yaml:"power" validate:"gte=0"`
	Price  decimal.Decimal `yaml:"price" validate:"gte=0"`
}

// Document is the feed file: an image pool and the records.
type Document struct {
	Images  []string `yaml:"images" validate:"min=1,dive,url"`
	Records []Record `yaml:"records" validate:"dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		return f.Interface().(decimal.Decimal).InexactFloat64()
	}, decimal.Decimal{})
	return v
}

// Parse decodes and validates a feed document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid feed: %w", err)
	}
	return &doc, nil
}

// Load reads the feed at path, or the built-in breez.ru feed when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", path, err)
	}
	return Parse(data)
}

// Breez serves the breez.ru records. It performs no I/O and never fails.
type Breez struct {
	doc *Document
}

func NewBreez(doc *Document) *Breez {
	return &Breez{doc: doc}
}

func (b *Breez) Name() string { return BreezName }

func (b *Breez) Products(_ context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0, len(b.doc.Records))
	for idx, r := range b.doc.Records {
		products = append(products, model.Product{
			ID:       fmt.Sprintf("breez_%d", idx),
			Name:     r.Brand + " " + r.Model,
			Brand:    r.Brand,
			Category: "Кондиционеры",
			Series:   r.Series,
			Power:    r.Power,
			Type:     "Настенный",
			Price:    r.Price,
			Source:   BreezName,
			Image:    b.doc.Images[idx%len(b.doc.Images)],
			Features: []string{"Инвертор", "Самодиагностика", "Wi-Fi"},
		})
	}
	return products, nil
}
