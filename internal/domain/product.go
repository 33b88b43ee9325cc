package domain

import "time"

type Product struct {
	ProductID     string    `json:"id" dynamodbav:"product_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Description   string    `json:"description" dynamodbav:"description"`
	Price         float64   `json:"price" dynamodbav:"price"`
	OriginalPrice float64   `json:"original_price" dynamodbav:"original_price"`
	// Discount is derived from OriginalPrice vs Price and never stored.
	Discount int       `json:"discount" dynamodbav:"-"`
	Image    string    `json:"image,omitempty" dynamodbav:"image"`
	ImageKey string    `json:"-" dynamodbav:"image_key"`
	Category string    `json:"category" dynamodbav:"category"`
	Rating   float64   `json:"rating" dynamodbav:"rating"`
	Reviews  int       `json:"reviews" dynamodbav:"reviews"`
	InStock  bool      `json:"in_stock" dynamodbav:"in_stock"`
	Enable   bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ProductInput struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gt=0"`
	Image         string   `json:"image"`
	ImageKey      string   `json:"image_key"`
	Category      string   `json:"category" validate:"required"`
	Rating        *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Reviews       *int     `json:"reviews"`
	InStock       *bool    `json:"in_stock"`
}

// ProductQuery carries the public catalog list parameters.
type ProductQuery struct {
	Category string // empty = all
	Sort     string // "" | "price-asc" | "price-desc" | "rating"
}
