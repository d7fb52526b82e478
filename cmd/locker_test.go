package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLocker struct {
	name  string
	trail *[]string
	err   error
}

func (l recordingLocker) Lock(_ context.Context, _ ...string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	*l.trail = append(*l.trail, "lock "+l.name)
	return func() { *l.trail = append(*l.trail, "unlock "+l.name) }, nil
}

func TestChainLocker_ReleasesInReverse(t *testing.T) {
	var trail []string
	locks := chainLocker{
		recordingLocker{name: "local", trail: &trail},
		recordingLocker{name: "redis", trail: &trail},
	}

	unlock, err := locks.Lock(t.Context(), "load:1")
	require.NoError(t, err)
	unlock()

	assert.Equal(t, []string{"lock local", "lock redis", "unlock redis", "unlock local"}, trail)
}

func TestChainLocker_FailureReleasesAcquired(t *testing.T) {
	var trail []string
	busy := errors.New("busy")
	locks := chainLocker{
		recordingLocker{name: "local", trail: &trail},
		recordingLocker{name: "redis", trail: &trail, err: busy},
	}

	unlock, err := locks.Lock(t.Context(), "load:1")
	require.ErrorIs(t, err, busy)
	assert.Nil(t, unlock)
	assert.Equal(t, []string{"lock local", "unlock local"}, trail)
}
