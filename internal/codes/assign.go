package codes

import (
	"context"
	"fmt"

	"github.com/gaia-project/gaia/internal/shared"
)

// MaxAttempts bounds how many candidates Assign tries before giving up.
const MaxAttempts = 10

// ReserveFunc attempts to persist an entity under code. It must return a
// code collision (see shared.IsCodeCollision) when code is already taken.
type ReserveFunc func(ctx context.Context, code string) error

// Assign draws candidates from gen until reserve accepts one. Only code
// collisions are retried; any other failure is returned unchanged.
func Assign(ctx context.Context, gen Generator, reserve ReserveFunc) (string, error) {
	for range MaxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := gen.Next(ctx)
		if err != nil {
			return "", err
		}
		err = reserve(ctx, code)
		if err == nil {
			return code, nil
		}
		if !shared.IsCodeCollision(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w after %d attempts", shared.ErrCodeGenerationExhausted, MaxAttempts)
}

// AssignConnection is Assign for NNN-NNN connection codes.
func AssignConnection(ctx context.Context, reserve ReserveFunc) (string, error) {
	return Assign(ctx, connectionGenerator{}, reserve)
}

type connectionGenerator struct{}

func (connectionGenerator) Next(context.Context) (string, error) {
	return GenerateConnectionCode(), nil
}
