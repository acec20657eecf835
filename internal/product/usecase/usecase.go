package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/product"
	"github.com/fekuna/omnipos-billing-service/internal/product/dto"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	indexName       = "products"
	listCachePrefix = "products:list:"
	listCacheTTL    = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"brand": { "type": "text" },
			"category": { "type": "keyword" },
			"item_number": { "type": "keyword" },
			"description": { "type": "text" },
			"color": { "type": "keyword" }
		}
	}
}`

type searchDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	ItemNumber  string `json:"item_number"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

type cachedList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

// NewProductUseCase accepts a nil cache or search client; the matching feature is then skipped.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	sizes, err := normalizeSizes(input.SizesStock)
	if err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsItemNumberUnique(ctx, strings.TrimSpace(input.ItemNumber), "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperror.Validation("item_number", "item number %q already exists", input.ItemNumber)
	}

	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
	}
	applyInput(p, input, sizes)

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.InvalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}

	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		if data, ok, err := uc.cache.GetBytes(ctx, cacheKey); err == nil && ok {
			var cached cachedList
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.SetBytes(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}

	return products, count, nil
}

// searchElastic resolves hit ids against the database so stock is never served stale from the index.
func (uc *productUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":     f.SearchQuery,
				"fields":    []string{"name^3", "brand^2", "item_number", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if f.Category != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category": f.Category}})
	}

	q := map[string]interface{}{
		"query":   map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"_source": []string{"id"},
	}
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * f.PageSize
		q["size"] = f.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	products, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", input.ID)
	}

	if err := validateInput(&input.CreateProductInput); err != nil {
		return nil, err
	}
	sizes, err := normalizeSizes(input.SizesStock)
	if err != nil {
		return nil, err
	}

	itemNumber := strings.TrimSpace(input.ItemNumber)
	if itemNumber != p.ItemNumber {
		unique, err := uc.repo.IsItemNumberUnique(ctx, itemNumber, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperror.Validation("item_number", "item number %q already exists", itemNumber)
		}
	}

	applyInput(p, &input.CreateProductInput, sizes)
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.InvalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperror.NotFound("product", id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.InvalidateListCache(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) InvalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	doc := searchDocument{
		ID:         p.ID,
		Name:       p.Name,
		Brand:      p.Brand,
		Category:   p.Category,
		ItemNumber: p.ItemNumber,
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.Color != nil {
		doc.Color = *p.Color
	}
	if err := uc.es.Index(ctx, indexName, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data)), nil
}

func validateInput(in *dto.CreateProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.Validation("name", "product name is required")
	}
	if in.Price.IsNegative() {
		return apperror.Validation("price", "price cannot be negative")
	}
	if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.Validation("discount_percentage", "discount must be between 0 and 100")
	}
	if in.Stock < 0 {
		return apperror.Validation("stock", "stock cannot be negative")
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return apperror.Validation("low_stock_threshold", "threshold cannot be negative")
	}
	return nil
}

// normalizeSizes trims labels, rejects case-insensitive duplicates and drops sizes with no stock.
func normalizeSizes(in map[string]int) (model.SizesStock, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := model.SizesStock{}
	seen := map[string]bool{}
	for size, qty := range in {
		label := strings.TrimSpace(size)
		if label == "" {
			return nil, apperror.Validation("sizes_stock", "size label cannot be blank")
		}
		key := strings.ToLower(label)
		if seen[key] {
			return nil, apperror.Validation("sizes_stock", "duplicate size %q", label)
		}
		seen[key] = true
		if qty <= 0 {
			continue
		}
		out[label] = qty
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func applyInput(p *model.Product, in *dto.CreateProductInput, sizes model.SizesStock) {
	p.Name = strings.TrimSpace(in.Name)
	p.Brand = strings.TrimSpace(in.Brand)
	p.Category = strings.TrimSpace(in.Category)
	p.ItemNumber = strings.TrimSpace(in.ItemNumber)
	p.Price = in.Price
	p.DiscountPercentage = in.DiscountPercentage
	p.SizesStock = sizes
	p.Stock = in.Stock
	if sizes == nil && len(in.SizesStock) > 0 {
		p.Stock = 0
	}
	p.LowStockThreshold = model.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
	p.Description = optional(in.Description)
	p.Image = optional(in.Image)
	p.Color = optional(in.Color)
	p.NormalizeStock()
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
