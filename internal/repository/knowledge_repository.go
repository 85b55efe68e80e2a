package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"climaprj/internal/model"
	"climaprj/internal/source"
)

const KnowledgeName = "frigelar.com.br"

// kW per BTU/h
var btuToKW = decimal.RequireFromString("0.000293071")

// Querier is the subset of pgxpool.Pool used here.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// KnowledgeRow is one product as stored by the crawler knowledge base.
type KnowledgeRow struct {
	ProdutoID  string
	ImageURL   string
	Brand      string
	Btus       int
	Ciclo      string
	Voltagem   string
	Tecnologia string
	Type       string
	Content    string
	SalePrice  float64
}

// KnowledgeRepository reads in-stock products from product_knowledge.
type KnowledgeRepository struct {
	DB Querier
}

// ListInStock returns one row per product (its oldest chunk), cheapest first.
func (r *KnowledgeRepository) ListInStock(ctx context.Context, limit int) ([]KnowledgeRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT produto_id, image_url, brand, btus, ciclo, voltagem, tecnologia, type, content, sale_price
		FROM (
			SELECT DISTINCT ON (produto_id) produto_id, image_url, brand, btus, ciclo, voltagem, tecnologia, type, content, sale_price
			FROM product_knowledge
			WHERE stock = 1
			ORDER BY produto_id, created_at ASC
		) sub
		ORDER BY sale_price ASC, produto_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query product_knowledge: %w", err)
	}
	defer rows.Close()

	var list []KnowledgeRow
	for rows.Next() {
		var k KnowledgeRow
		if err := rows.Scan(&k.ProdutoID, &k.ImageURL, &k.Brand, &k.Btus, &k.Ciclo, &k.Voltagem, &k.Tecnologia, &k.Type, &k.Content, &k.SalePrice); err != nil {
			continue // skip rows that do not scan
		}
		list = append(list, k)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("read product_knowledge: %w", err)
	}
	return list, nil
}

// KnowledgeSource exposes the knowledge base as a product source.
type KnowledgeSource struct {
	Repo  *KnowledgeRepository
	Limit int
	Log   *zap.Logger
}

func (s *KnowledgeSource) Name() string { return KnowledgeName }

func (s *KnowledgeSource) Products(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}

	limit := s.Limit
	if limit <= 0 {
		limit = 15
	}
	rows, err := s.Repo.ListInStock(ctx, limit)
	for _, row := range rows {
		p, ok := rowToProduct(len(products), row)
		if !ok {
			if s.Log != nil {
				s.Log.Debug("knowledge row skipped", zap.String("produto_id", row.ProdutoID))
			}
			continue
		}
		products = append(products, p)
	}
	return products, err
}

func rowToProduct(seq int, row KnowledgeRow) (model.Product, bool) {
	name := firstLine(row.Content)
	if name == "" || row.SalePrice < 0 || row.Btus < 0 {
		return model.Product{}, false
	}

	brand := strings.TrimSpace(row.Brand)
	if brand == "" {
		brand = strings.Fields(name)[0]
	}
	productType := strings.TrimSpace(row.Type)
	if productType == "" {
		productType = "Split"
	}
	image := strings.TrimSpace(row.ImageURL)
	if image == "" {
		image = source.DefaultImage
	}

	var features []string
	for _, f := range []string{row.Tecnologia, row.Ciclo, row.Voltagem} {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	return model.Product{
		ID:       fmt.Sprintf("frigelar_%d", seq),
		Name:     name,
		Brand:    brand,
		Category: "Ar-Condicionado",
		Series:   name,
		Power:    decimal.NewFromInt(int64(row.Btus)).Mul(btuToKW).Round(1),
		Type:     productType,
		Price:    decimal.NewFromFloat(row.SalePrice),
		Source:   KnowledgeName,
		Image:    image,
		Features: features,
	}, true
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
