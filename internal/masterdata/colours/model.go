package colours

import "regexp"

var (
	rgbPattern = regexp.MustCompile(`^(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d),(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d),(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)$`)
	hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ColourCode is a named colour used to tag cables.
type ColourCode struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	RGB  string `json:"rgb"`
	Hex  string `json:"hex"`
}

type ColourInput struct {
	Name string `json:"name" validate:"required,max=100"`
	RGB  string `json:"rgb" validate:"required"`
	Hex  string `json:"hex" validate:"required"`
}

// Conductor is the insulation colour of one wire in a twisted-pair cable.
type Conductor string

const (
	WhiteOrange Conductor = "WHITE ORANGE"
	Orange      Conductor = "ORANGE"
	WhiteGreen  Conductor = "WHITE GREEN"
	Blue        Conductor = "BLUE"
	WhiteBlue   Conductor = "WHITE BLUE"
	Green       Conductor = "GREEN"
	WhiteBrown  Conductor = "WHITE BROWN"
	Brown       Conductor = "BROWN"
)

// Conductors lists every valid conductor colour.
var Conductors = []Conductor{WhiteOrange, Orange, WhiteGreen, Blue, WhiteBlue, Green, WhiteBrown, Brown}

func (c Conductor) Valid() bool {
	for _, v := range Conductors {
		if c == v {
			return true
		}
	}
	return false
}

// PinsPerJack is the number of contacts in an RJ45 jack.
const PinsPerJack = 8

// Pin is one contact of a named RJ45 pinout.
type Pin struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	PinNumber int       `json:"pin_number"`
	Colour    Conductor `json:"colour"`
}

// Pinout is a complete wiring standard such as T568A.
type Pinout struct {
	Name string `json:"name"`
	Pins []Pin  `json:"pins"`
}

type PinInput struct {
	PinNumber int       `json:"pin_number" validate:"min=1,max=8"`
	Colour    Conductor `json:"colour" validate:"required"`
}

type PinoutInput struct {
	Name string     `json:"name" validate:"required,max=100"`
	Pins []PinInput `json:"pins" validate:"len=8,dive"`
}
