package domain

import "time"

// StockItem is a tracked pharmaceutical product line.
type StockItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	UniqueNumber string     `json:"unique_number"`
	Category     string     `json:"category,omitempty"`
	Quantity     int        `json:"quantity"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ExpiresWithin reports whether the item has an expiry date on or before
// now plus the given number of days.
func (s *StockItem) ExpiresWithin(now time.Time, days int) bool {
	if s.ExpiryDate == nil {
		return false
	}
	return !s.ExpiryDate.After(now.AddDate(0, 0, days))
}

// IsLowStock reports whether the quantity is at or below threshold.
func (s *StockItem) IsLowStock(threshold int) bool {
	return s.Quantity <= threshold
}

// CategoryOrDefault returns the category, or "Uncategorized" when unset.
func (s *StockItem) CategoryOrDefault() string {
	if s.Category == "" {
		return "Uncategorized"
	}
	return s.Category
}
