package jobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPinger struct{ errs []error }

func (f *flakyPinger) Ping(context.Context) error {
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every minute", &flakyPinger{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestProbe_LogsTransitionsOnce(t *testing.T) {
	var buf bytes.Buffer
	down := errors.New("dial tcp: connection refused")
	store := &flakyPinger{errs: []error{nil, down, down, nil}}

	s, err := NewScheduler("*/30 * * * * *", store, zerolog.New(&buf).Level(zerolog.InfoLevel))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		s.probe()
	}

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "store unreachable"))
	assert.NotContains(t, out, "still unreachable")
	assert.Equal(t, 1, strings.Count(out, "store recovered"))
	assert.True(t, s.healthy)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("0 0 0 * * *", &flakyPinger{}, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
