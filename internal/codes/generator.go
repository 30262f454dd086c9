package codes

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
)

const (
	letterSpace uint64 = 26 * 26 * 26
	digitSpace  uint64 = 1_000_000_000
	codeSpace          = letterSpace * digitSpace

	// permMultiplier must stay coprime with codeSpace (prime factors 2, 5, 13).
	permMultiplier uint64 = 982_451
	permOffset     uint64 = 7_919_000_013
)

// Generator yields candidate entity codes.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// RandomGenerator draws codes uniformly at random.
type RandomGenerator struct{}

// Next implements Generator.
func (RandomGenerator) Next(context.Context) (string, error) {
	return Generate(), nil
}

// Sequence hands out monotonically increasing numbers.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// SequenceGenerator maps a sequence through a bijection of the code space,
// so successive values never collide and do not look sequential.
type SequenceGenerator struct {
	seq Sequence
}

// NewSequenceGenerator wraps seq.
func NewSequenceGenerator(seq Sequence) *SequenceGenerator {
	return &SequenceGenerator{seq: seq}
}

// Next implements Generator.
func (g *SequenceGenerator) Next(ctx context.Context) (string, error) {
	n, err := g.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("codes: sequence: %w", err)
	}
	return FromSequence(n), nil
}

// FromSequence returns the code assigned to sequence value n.
func FromSequence(n int64) string {
	v := uint64(n) % codeSpace
	hi, lo := bits.Mul64(v, permMultiplier)
	p := bits.Rem64(hi, lo, codeSpace)
	p = (p + permOffset) % codeSpace
	return format(p/digitSpace, p%digitSpace)
}

// CounterSequence is an in-process Sequence.
type CounterSequence struct {
	n atomic.Int64
}

// Next implements Sequence.
func (c *CounterSequence) Next(context.Context) (int64, error) {
	return c.n.Add(1), nil
}
