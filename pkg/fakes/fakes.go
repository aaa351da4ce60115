// Package fakes provides leaves for commonly faked values.
// All values are derived from the evaluation's random source,
// so they are reproducible for a seeded source.
package fakes

import (
	"math"

	"github.com/google/uuid"
	"github.com/goombaio/namegenerator"

	"github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
)

// Name provides names like "silent-sunset". Every name
// consumes one draw.
func Name() fakir.Node[string] {
	return fakir.RngFn(func(src random.Source) (string, error) {
		seed := int64(src.Index(math.MaxInt32))
		return namegenerator.NewNameGenerator(seed).Generate(), nil
	})
}

// UUID provides random (version 4) UUIDs. Every UUID
// consumes 16 draws.
func UUID() fakir.Node[string] {
	return fakir.RngFn(func(src random.Source) (string, error) {
		id, err := uuid.NewRandomFromReader(random.NewReader(src))
		if err != nil {
			return "", err
		}
		return id.String(), nil
	})
}
