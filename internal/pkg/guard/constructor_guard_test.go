package guard_test

import (
	"errors"
	"testing"

	"freight/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardedCommand struct {
	tenant string
	guard  guard.ConstructorGuard
}

var errGuardedCommandIsNotConstructed = errors.New("guardedCommand must be created via newGuardedCommand")

func newGuardedCommand(tenant string) guardedCommand {
	return guardedCommand{tenant: tenant, guard: guard.NewConstructorGuard()}
}

func (c guardedCommand) Validate() error {
	return c.guard.Validate(errGuardedCommandIsNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes with and without a custom error", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("ignored")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entity not constructed")

		assert.Equal(t, expected, g.Validate(expected))
	})

	t.Run("zero value falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.ErrorIs(t, g.Validate(nil), guard.ErrDefaultConstructorGuard)
	})

	t.Run("copies keep the constructed state", func(t *testing.T) {
		original := guard.NewConstructorGuard()
		copied := original

		require.NoError(t, copied.Validate(nil))
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	require.NoError(t, newGuardedCommand("acme").Validate())

	var zero guardedCommand
	assert.ErrorIs(t, zero.Validate(), errGuardedCommandIsNotConstructed)
}
