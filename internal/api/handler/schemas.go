package handler

import (
	"time"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// --- Auth ---

type registerRequest struct {
	Username   string `json:"username"    validate:"required,min=3"`
	Password   string `json:"password"    validate:"required,min=6"`
	FullName   string `json:"full_name"   validate:"required"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Stock ---

type createStockRequest struct {
	Name         string     `json:"name"          validate:"required"`
	UniqueNumber string     `json:"unique_number" validate:"required"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"      validate:"gte=0"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	ImageURL     string     `json:"image_url"     validate:"omitempty,url"`
}

// updateStockRequest is a partial update; absent fields are left unchanged.
type updateStockRequest struct {
	Name         *string    `json:"name"          validate:"omitempty,min=1"`
	UniqueNumber *string    `json:"unique_number" validate:"omitempty,min=1"`
	Category     *string    `json:"category"`
	Quantity     *int       `json:"quantity"      validate:"omitempty,gte=0"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	ClearExpiry  bool       `json:"clear_expiry"`
	ImageURL     *string    `json:"image_url"`
}

// --- Allocations ---

type createAllocationRequest struct {
	StockItemID string `json:"stock_item_id" validate:"required"`
	UserID      string `json:"user_id"       validate:"required"`
	Quantity    int    `json:"quantity"      validate:"gt=0"`
}

type updateAllocationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending received cancelled"`
}

// --- Lists ---

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}
