package filter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"climaprj/internal/model"
)

func TestBuildFacets(t *testing.T) {
	products := []model.Product{
		product("1", "LG", "Split", 38900),
		product("2", "daikin", "split", 68500),
		product("3", "Fujitsu", "Cassette", 29900),
		product("4", "lg", "Split", 31900),
		product("5", "", "", 45000),
	}

	f := BuildFacets(products)

	assert.Equal(t, []string{"daikin", "Fujitsu", "LG"}, f.Brands)
	assert.Equal(t, []string{"Cassette", "Split"}, f.Types)
	assert.True(t, f.MinPrice.Equal(decimal.NewFromInt(29900)))
	assert.True(t, f.MaxPrice.Equal(decimal.NewFromInt(68500)))
}

func TestBuildFacets_Empty(t *testing.T) {
	f := BuildFacets(nil)
	assert.NotNil(t, f.Brands)
	assert.Empty(t, f.Brands)
	assert.Empty(t, f.Types)
	assert.True(t, f.MinPrice.IsZero())
}
