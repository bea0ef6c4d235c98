package pattern_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/rotastream/pattern"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	when := time.Date(2024, 3, 9, 7, 5, 4, 0, time.UTC)
	format := pattern.New()

	tests := []struct {
		pattern string
		seq     int
		want    string
	}{
		{"/var/log/service-%Y%m%d.log", 0, "/var/log/service-20240309.log"},
		{"/var/log/service-%Y%m%d.log", 2, "/var/log/service-20240309.2.log"},
		{"/var/log/service-%Y-%m-%dT%H-%M-%S.%i.log", 0, "/var/log/service-2024-03-09T07-05-04.0.log"},
		{"/var/log/service-%Y.%i.log", 3, "/var/log/service-2024.3.log"},
		{"/var/log/100%%-%Y", 1, "/var/log/100%-2024.1"},
		{"/var/log/static.log", 0, "/var/log/static.log"},
	}

	for _, test := range tests {
		name, err := format.Format(test.pattern, when, test.seq)
		assert.NoError(err, test.pattern)
		assert.Equal(test.want, name, test.pattern)

		again, _ := format.Format(test.pattern, when, test.seq)
		assert.Equal(name, again, "formatting must be deterministic")
	}
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, err := pattern.New().Format("", time.Now(), 0)
	assert.ErrorIs(err, pattern.ErrEmptyPattern)
	assert.Error(pattern.Validate("/var/log/service-%Q.log"), "unknown verbs are invalid")
	assert.NoError(pattern.Validate("/var/log/service-%Y%m%d.%i.log"))
}

func TestHasSequence(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.True(pattern.HasSequence("a-%i.log"))
	assert.False(pattern.HasSequence("a-%%i.log"), "an escaped percent is not a verb")
	assert.False(pattern.HasSequence("a-%Y.log"))
	assert.False(pattern.HasSequence("a-%"))
}

func TestGlob(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.Equal("/var/log/service-*T*.log", pattern.Glob("/var/log/service-%Y%m%dT%H%M%S.log"), "literals between verbs survive")
	assert.Equal("/var/log/service-*.*.log", pattern.Glob("/var/log/service-%Y.%i.log"))
	assert.Equal("/var/log/archive*.log", pattern.Glob("/var/log/archive.log"))
	assert.Equal("/var/log/*/service-*.log", pattern.Glob("/var/log/%Y/service-%d.log"))
	assert.Equal("/var/log/100%-*", pattern.Glob("/var/log/100%%-%Y"))

	when := time.Date(2024, 3, 9, 7, 5, 4, 0, time.UTC)
	for _, p := range []string{"/var/log/service-%Y%m%d.log", "/var/log/service-%Y.%i.log"} {
		for seq := range 3 {
			name, _ := pattern.New().Format(p, when, seq)
			ok, err := filepath.Match(pattern.Glob(p), name)
			assert.NoError(err)
			assert.True(ok, "%s must match its own glob", name)
		}
	}
}
