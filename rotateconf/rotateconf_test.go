package rotateconf_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/rotastream"
	"golift.io/rotastream/clock"
	"golift.io/rotastream/compressor"
	"golift.io/rotastream/logcallback"
	"golift.io/rotastream/policy"
	"golift.io/rotastream/retention"
	"golift.io/rotastream/rotateconf"
)

const testYAML = `
file: /var/log/service.log
pattern: /var/log/archives/service-%Y%m%d-%H%M%S.log
utc: true
file_mode: "0640"
policies:
  - type: daily
  - type: size
    size: 100MB
    evaluate: before
  - type: every
    every: 90m
  - type: cron
    cron: "0 */6 * * *"
retention:
  count: 10
  age: 720h
compress: true
log:
  level: debug
`

const testJSON = `{
  "file": "/var/log/service.log",
  "pattern": "/var/log/service-%Y%m%d.log",
  "policies": [{"type": "hourly"}, {"type": "size", "size": "512KiB"}]
}`

func TestParseYAML(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	file, err := rotateconf.Parse([]byte(testYAML), rotateconf.FormatYAML)
	require.NoError(t, err)
	assert.Equal("/var/log/service.log", file.File)
	assert.True(file.UTC)
	assert.Len(file.Policies, 4)
	assert.Equal(90*time.Minute, file.Policies[2].Every)
	assert.Equal(720*time.Hour, file.Retention.Age)

	config, err := file.Config()
	require.NoError(t, err)
	assert.Equal(os.FileMode(0o640), config.FileMode)
	assert.Zero(config.DirMode, "left for the stream default")
	assert.Equal(time.UTC, config.Clock.(*clock.Wall).Location())

	names := []string{}
	for _, p := range config.Policies {
		names = append(names, p.String())
	}

	assert.Equal([]string{"daily", "size>100000000 (before write)", "every 1h30m0s", "cron(0 */6 * * *)"}, names)

	require.Len(t, config.Callbacks, 3)
	assert.IsType(&logcallback.Logger{}, config.Callbacks[0])
	assert.IsType(&compressor.Compressor{}, config.Callbacks[1])

	pruner, ok := config.Callbacks[2].(*retention.Pruner)
	require.True(t, ok)
	assert.Equal(10, pruner.FileCount)
	assert.Equal(config.Pattern, pruner.Pattern)
	assert.Equal(config.File, pruner.File)
	assert.NotNil(config.Printf)
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	file, err := rotateconf.Parse([]byte(testJSON), rotateconf.FormatJSON)
	require.NoError(t, err)

	config, err := file.Config()
	require.NoError(t, err)
	assert.Empty(config.Callbacks)
	assert.Equal("hourly", config.Policies[0].String())
	assert.Equal(policy.MaxSize(512*1024, rotastream.AfterWrite), config.Policies[1])
}

func TestLoad(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "rotate.yml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), rotastream.FileMode))

	file, err := rotateconf.Load(path)
	require.NoError(t, err)
	assert.Equal("/var/log/archives/service-%Y%m%d-%H%M%S.log", file.Pattern)

	_, err = rotateconf.Load(filepath.Join(dir, "rotate.toml"))
	assert.ErrorIs(err, rotateconf.ErrUnsupportedFormat)

	_, err = rotateconf.Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(err, os.ErrNotExist)

	_, err = rotateconf.Parse([]byte("{not json"), rotateconf.FormatJSON)
	assert.ErrorIs(err, rotateconf.ErrParseFailed)

	_, err = rotateconf.Parse(nil, "toml")
	assert.ErrorIs(err, rotateconf.ErrUnsupportedFormat)
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	tests := []struct {
		file *rotateconf.File
		err  error
	}{
		{&rotateconf.File{Policies: []rotateconf.Policy{{Type: "monthly"}}}, rotateconf.ErrUnknownPolicy},
		{&rotateconf.File{Policies: []rotateconf.Policy{{Type: "every"}}}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{Policies: []rotateconf.Policy{{Type: "cron", Cron: "nope"}}}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{Policies: []rotateconf.Policy{{Type: "size", Size: "lots"}}}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{Policies: []rotateconf.Policy{{Type: "size", Size: "0"}}}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{Policies: []rotateconf.Policy{{Type: "size", Size: "1MB", Evaluate: "during"}}}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{FileMode: "rw-r--r--"}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{DirMode: "999"}, rotateconf.ErrInvalidValue},
		{&rotateconf.File{Log: rotateconf.Log{Level: "chatty"}}, rotateconf.ErrInvalidValue},
	}

	for idx, test := range tests {
		_, err := test.file.Config()
		assert.ErrorIs(err, test.err, "test %d", idx)
	}
}
