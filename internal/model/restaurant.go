package model

import "time"

// Restaurant is a read-only catalog entry.
type Restaurant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Location    string    `json:"location" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"size:512"`
	Rating      float64   `json:"rating" gorm:"not null;default:0;index;check:rating >= 0 AND rating <= 5"`
	PriceRange  string    `json:"price_range" gorm:"size:10"`
	Cuisine     string    `json:"cuisine" gorm:"size:100;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
