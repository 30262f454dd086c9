package terminals

// Terminal is a connector fitted at one end of a connection.
type Terminal struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProductCode string `json:"product_code"`
}

type Input struct {
	Name        string `json:"name" validate:"required,max=100"`
	ProductCode string `json:"product_code" validate:"required,len=14"`
}
