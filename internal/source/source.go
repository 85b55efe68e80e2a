package source

import (
	"context"

	"climaprj/internal/model"
)

// Source is one upstream product provider.
//
// Products returns whatever the source managed to normalize. A non-nil error
// does not invalidate the returned slice: it explains why it may be short.
type Source interface {
	Name() string
	Products(ctx context.Context) ([]model.Product, error)
}

// DefaultImage is used when an upstream record carries no usable picture.
const DefaultImage = "https://images.unsplash.com/photo-1585909695284-32d2985ac9c0?w=400&h=300&fit=crop"
