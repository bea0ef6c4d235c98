package rotastream

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/rotastream/clock"
)

// A rotation that wins the lock after Close reports ErrClosed and calls nothing.
func TestRotateAfterClose(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	fail := func() { t.Error("a closed stream must not call back") }
	stream, err := New(&Config{
		File:    filepath.Join(dir, "app.log"),
		Pattern: filepath.Join(dir, "app-%Y%m%d.log"),
		Clock:   clock.Wrap(clockwork.NewFakeClock(), time.UTC),
		Callbacks: []Callback{&CallbackFuncs{
			Trigger: func(Policy, time.Time) { fail() },
			Success: func(Policy, time.Time, string) { fail() },
			Failure: func(Policy, time.Time, string, error) { fail() },
		}},
	})
	require.NoError(t, err)

	_, err = stream.Write([]byte("data\n"))
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	out := stream.rotate(Manual, stream.config.Clock.Now())
	assert.ErrorIs(out.err, ErrClosed)
	assert.Empty(out.archive)

	files, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Equal([]string{filepath.Join(dir, "app.log")}, files, "nothing was archived")
}
