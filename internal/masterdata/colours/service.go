package colours

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gaia-project/gaia/internal/shared"
)

type Service struct {
	repo Repository
	tx   shared.Transactor
}

func NewService(repo Repository, tx shared.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) ListColours(ctx context.Context) ([]ColourCode, error) {
	return s.repo.ListColours(ctx)
}

func (s *Service) GetColour(ctx context.Context, id int64) (ColourCode, error) {
	return s.repo.GetColour(ctx, id)
}

// CreateColour stores a colour. The name is title-cased before saving.
func (s *Service) CreateColour(ctx context.Context, in ColourInput) (ColourCode, error) {
	colour, err := normalizeColour(in)
	if err != nil {
		return ColourCode{}, err
	}
	return s.repo.CreateColour(ctx, colour)
}

func (s *Service) UpdateColour(ctx context.Context, id int64, in ColourInput) (ColourCode, error) {
	colour, err := normalizeColour(in)
	if err != nil {
		return ColourCode{}, err
	}
	colour.ID = id
	if err := s.repo.UpdateColour(ctx, colour); err != nil {
		return ColourCode{}, err
	}
	return colour, nil
}

func (s *Service) DeleteColour(ctx context.Context, id int64) error {
	return s.repo.DeleteColour(ctx, id)
}

// ListPinouts groups stored pins by pinout name.
func (s *Service) ListPinouts(ctx context.Context) ([]Pinout, error) {
	pins, err := s.repo.ListPins(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string][]Pin)
	for _, p := range pins {
		byName[p.Name] = append(byName[p.Name], p)
	}
	pinouts := make([]Pinout, 0, len(byName))
	for name, group := range byName {
		sort.Slice(group, func(i, j int) bool { return group[i].PinNumber < group[j].PinNumber })
		pinouts = append(pinouts, Pinout{Name: name, Pins: group})
	}
	sort.Slice(pinouts, func(i, j int) bool { return pinouts[i].Name < pinouts[j].Name })
	return pinouts, nil
}

func (s *Service) GetPinout(ctx context.Context, name string) (Pinout, error) {
	pins, err := s.repo.PinsByName(ctx, name)
	if err != nil {
		return Pinout{}, err
	}
	if len(pins) == 0 {
		return Pinout{}, fmt.Errorf("pinout %q: %w", name, shared.ErrNotFound)
	}
	return Pinout{Name: name, Pins: pins}, nil
}

// CreatePinout stores all eight pins of a pinout or none of them.
func (s *Service) CreatePinout(ctx context.Context, in PinoutInput) (Pinout, error) {
	if err := validatePinout(&in); err != nil {
		return Pinout{}, err
	}
	pinout := Pinout{Name: in.Name}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		pinout.Pins = pinout.Pins[:0]
		for _, pi := range in.Pins {
			pin, err := s.repo.CreatePin(ctx, Pin{Name: in.Name, PinNumber: pi.PinNumber, Colour: pi.Colour})
			if err != nil {
				return err
			}
			pinout.Pins = append(pinout.Pins, pin)
		}
		return nil
	})
	if err != nil {
		return Pinout{}, err
	}
	return pinout, nil
}

func (s *Service) DeletePinout(ctx context.Context, name string) error {
	n, err := s.repo.DeletePinout(ctx, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pinout %q: %w", name, shared.ErrNotFound)
	}
	return nil
}

func normalizeColour(in ColourInput) (ColourCode, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.RGB = strings.ReplaceAll(in.RGB, " ", "")
	if err := shared.Validate(in); err != nil {
		return ColourCode{}, err
	}
	if !rgbPattern.MatchString(in.RGB) {
		return ColourCode{}, shared.Invalid("rgb must be R,G,B with each component 0-255")
	}
	if !hexPattern.MatchString(in.Hex) {
		return ColourCode{}, shared.Invalid("hex must be #RRGGBB")
	}
	return ColourCode{
		Name: cases.Title(language.English).String(in.Name),
		RGB:  in.RGB,
		Hex:  in.Hex,
	}, nil
}

func validatePinout(in *PinoutInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.Validate(in); err != nil {
		return err
	}
	pins := make(map[int]bool, PinsPerJack)
	colours := make(map[Conductor]bool, PinsPerJack)
	for i := range in.Pins {
		pi := &in.Pins[i]
		pi.Colour = Conductor(strings.ToUpper(strings.TrimSpace(string(pi.Colour))))
		if !pi.Colour.Valid() {
			return shared.Invalid("unknown conductor colour %q", pi.Colour)
		}
		if pins[pi.PinNumber] {
			return shared.Invalid("pin %d assigned twice", pi.PinNumber)
		}
		if colours[pi.Colour] {
			return shared.Invalid("colour %s used twice", pi.Colour)
		}
		pins[pi.PinNumber] = true
		colours[pi.Colour] = true
	}
	return nil
}
