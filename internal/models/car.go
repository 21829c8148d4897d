package models

import "time"

// Car is a rentable vehicle owned by exactly one office. Available is
// informational for browsing; booking conflicts are decided by reservation
// overlap, never by this flag.
type Car struct {
	ID           string    `json:"id" yaml:"id"`
	Make         string    `json:"make" yaml:"make"`
	Model        string    `json:"model" yaml:"model"`
	Year         int       `json:"year" yaml:"year"`
	PricePerDay  float64   `json:"price_per_day" yaml:"price_per_day"`
	ImageURL     string    `json:"image_url" yaml:"image_url"`
	Description  string    `json:"description,omitempty" yaml:"description"`
	Transmission string    `json:"transmission" yaml:"transmission"`
	FuelType     string    `json:"fuel_type" yaml:"fuel_type"`
	Available    bool      `json:"available" yaml:"available"`
	CategoryID   string    `json:"category_id,omitempty" yaml:"category_id"`
	OfficeID     string    `json:"office_id" yaml:"office_id"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// CarFilter narrows fleet listings. Zero values mean "any".
type CarFilter struct {
	Make           string
	Transmission   string
	FuelType       string
	OfficeID       string
	MaxPricePerDay float64
	OnlyAvailable  bool
}
