package suppliers

import (
	"time"
)

// Supplier represents a supplier entity
type Supplier struct {
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	AddressLine1   string    `json:"address_line1"`
	AddressLine2   string    `json:"address_line2"`
	City           string    `json:"city"`
	CountryCode    string    `json:"country_code"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Website        string    `json:"website"`
	IsManufacturer bool      `json:"is_manufacturer"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Input carries the writable supplier fields.
type Input struct {
	Name           string `json:"name" validate:"required,max=100"`
	AddressLine1   string `json:"address_line1" validate:"max=200"`
	AddressLine2   string `json:"address_line2" validate:"max=200"`
	City           string `json:"city" validate:"max=100"`
	CountryCode    string `json:"country_code" validate:"omitempty,alpha,min=2,max=3"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=32"`
	Website        string `json:"website" validate:"omitempty,url"`
	IsManufacturer bool   `json:"is_manufacturer"`
	IsActive       *bool  `json:"is_active"`
}

func (in Input) apply(s *Supplier) {
	s.Name = in.Name
	s.AddressLine1 = in.AddressLine1
	s.AddressLine2 = in.AddressLine2
	s.City = in.City
	s.CountryCode = in.CountryCode
	s.Email = in.Email
	s.Phone = in.Phone
	s.Website = in.Website
	s.IsManufacturer = in.IsManufacturer
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
}
