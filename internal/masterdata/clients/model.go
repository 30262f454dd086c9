package clients

import "time"

// Client is a customer that commissions system builds.
type Client struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	UserID       *int64    `json:"user_id,omitempty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2"`
	City         string    `json:"city"`
	CountryCode  string    `json:"country_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Input struct {
	Name         string `json:"name" validate:"required,max=200"`
	UserID       *int64 `json:"user_id" validate:"omitempty,gt=0"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=32"`
	AddressLine1 string `json:"address_line1" validate:"max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"max=100"`
	CountryCode  string `json:"country_code" validate:"omitempty,alpha,min=2,max=3"`
}

func (in Input) apply(c *Client) {
	c.Name = in.Name
	c.UserID = in.UserID
	c.Email = in.Email
	c.Phone = in.Phone
	c.AddressLine1 = in.AddressLine1
	c.AddressLine2 = in.AddressLine2
	c.City = in.City
	c.CountryCode = in.CountryCode
}
