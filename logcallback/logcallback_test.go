package logcallback_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/rotastream"
	"golift.io/rotastream/logcallback"
)

func TestLogger(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var buf bytes.Buffer

	callback := logcallback.New(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	instant := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	callback.OnTrigger(rotastream.Manual, instant)
	callback.OnClose(rotastream.Manual, instant, nil)
	callback.OnOpen(rotastream.Manual, instant, nil)
	callback.OnSuccess(rotastream.Manual, instant, "/var/log/app-20240102.log")
	callback.OnFailure(rotastream.Manual, instant, "", errors.New("disk full")) //nolint:err113

	out := buf.String()
	for _, msg := range []string{"rotation trigger", "file close", "file open", "rotation success", "rotation failure"} {
		assert.Contains(out, msg)
	}

	assert.Contains(out, "policy=manual")
	assert.Contains(out, "/var/log/app-20240102.log")
	assert.Contains(out, "disk full")
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var buf bytes.Buffer

	callback := logcallback.New(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	callback.OnSuccess(rotastream.Manual, time.Now(), "archive.log")
	assert.Empty(buf.String(), "steps are debug messages")

	callback.OnFailure(rotastream.Manual, time.Now(), "archive.log", errors.New("nope")) //nolint:err113
	assert.Contains(buf.String(), "rotation failure")
}

func TestLoggerInStream(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var buf bytes.Buffer

	dir := t.TempDir()
	stream, err := rotastream.New(&rotastream.Config{
		File:      filepath.Join(dir, "app.log"),
		Pattern:   filepath.Join(dir, "app-%Y%m%d-%H%M%S.log"),
		Callbacks: []rotastream.Callback{logcallback.New(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))},
	})
	require.NoError(t, err)

	defer stream.Close()

	_, err = stream.Write([]byte("hello\n"))
	require.NoError(t, err)

	archive, err := stream.Rotate()
	require.NoError(t, err)
	assert.Contains(buf.String(), "rotation success")
	assert.Contains(buf.String(), archive)
}
