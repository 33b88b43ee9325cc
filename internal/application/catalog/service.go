package catalog

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
)

type Service interface {
	List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, productID string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productStore interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Scan(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, productID string) error
}

type service struct {
	repo productStore
}

func NewService(repo productStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	products, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if q.Category != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.Category == q.Category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	switch q.Sort {
	case "price-asc":
		sort.Slice(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price-desc":
		sort.Slice(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "rating":
		sort.Slice(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	}
	for i := range products {
		products[i].Discount = computeDiscount(products[i].OriginalPrice, products[i].Price)
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Discount = computeDiscount(p.OriginalPrice, p.Price)
	return p, nil
}

func (s *service) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	p := &domain.Product{
		ProductID:   id.New(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		ImageKey:    in.ImageKey,
		Category:    in.Category,
		InStock:     true,
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Reviews != nil {
		p.Reviews = *in.Reviews
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	p.Discount = computeDiscount(p.OriginalPrice, p.Price)
	return p, nil
}

func (s *service) Update(ctx context.Context, productID string, in domain.ProductInput) (*domain.Product, error) {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"category":    in.Category,
	}
	if in.OriginalPrice != nil {
		updates["original_price"] = *in.OriginalPrice
	}
	if in.Image != "" {
		updates["image"] = in.Image
	}
	if in.ImageKey != "" {
		updates["image_key"] = in.ImageKey
	}
	if in.Rating != nil {
		updates["rating"] = *in.Rating
	}
	if in.Reviews != nil {
		updates["reviews"] = *in.Reviews
	}
	if in.InStock != nil {
		updates["in_stock"] = *in.InStock
	}
	if err := s.repo.Update(ctx, productID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, productID)
}

func (s *service) Delete(ctx context.Context, productID string) error {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, productID)
}

// computeDiscount returns the percentage off the original price, rounded
// to the nearest whole percent. Zero when there is no markdown.
func computeDiscount(original, price float64) int {
	if original <= 0 || price <= 0 || price >= original {
		return 0
	}
	return int(math.Round((original - price) / original * 100))
}
