package floodwait

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRetriesFloodWait(t *testing.T) {
	lim := New(100, 10)
	calls := 0
	err := lim.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &WaitError{RetryAfter: time.Millisecond}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnOtherErrors(t *testing.T) {
	lim := New(100, 10)
	boom := errors.New("forbidden")
	calls := 0
	err := lim.Do(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	lim := New(100, 10)
	calls := 0
	err := lim.Do(context.Background(), func() error {
		calls++
		return &WaitError{RetryAfter: time.Millisecond}
	})
	var fw *WaitError
	assert.ErrorAs(t, err, &fw)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextCancel(t *testing.T) {
	lim := New(100, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := lim.Do(ctx, func() error {
		return &WaitError{RetryAfter: time.Minute}
	})
	assert.Error(t, err)
}
