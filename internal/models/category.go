package models

import "time"

type Category struct {
	ID           int       `json:"id"`
	CategoryName string    `json:"category_name"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateCategoryRequest struct {
	CategoryName string `json:"category_name" validate:"required,max=100"`
	Description  string `json:"description"`
}
