package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name  string `validate:"required,max=5"`
	Email string `validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sampleInput{Name: "ok"}))

	err := Validate(sampleInput{Name: "too long", Email: "nope"})
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "Name failed max=5")
	require.Contains(t, err.Error(), "Email failed email")
}
