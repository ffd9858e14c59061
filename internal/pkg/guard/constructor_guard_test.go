package guard_test

import (
	"errors"
	"testing"

	"bookstore/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("cart must be created via NewCart")

	t.Run("constructed guard passes with custom and nil errors", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value guard returns the custom error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero value guard falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	errAddressNotConstructed := errors.New("address must be created via newAddress")

	type address struct {
		line  string
		guard guard.ConstructorGuard
	}

	newAddress := func(line string) (address, error) {
		if line == "" {
			return address{}, errors.New("address line is required")
		}
		return address{line: line, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed value validates", func(t *testing.T) {
		a, err := newAddress("1 Library Lane")

		require.NoError(t, err)
		require.NoError(t, a.guard.Validate(errAddressNotConstructed))
		assert.Equal(t, "1 Library Lane", a.line)
	})

	t.Run("failed construction returns a zero value that does not validate", func(t *testing.T) {
		a, err := newAddress("")

		require.Error(t, err)
		assert.Equal(t, errAddressNotConstructed, a.guard.Validate(errAddressNotConstructed))
	})
}
