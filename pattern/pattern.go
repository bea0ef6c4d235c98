// Package pattern formats archive file names for rotastream.
//
// Patterns use strftime verbs, like `/var/log/service-%Y%m%d-%H%M%S.log`.
// The extra verb `%i` is the sequence number used to keep archive names
// unique. Patterns without `%i` get `.N` inserted before their extension when
// a sequence number above zero is requested: `service-20240101.1.log`.
// Characters that are not verbs pass through unchanged, and `%%` is a percent sign.
package pattern

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Sequence is the verb replaced with the sequence number.
const Sequence = 'i'

// ErrEmptyPattern is returned when formatting an empty pattern.
var ErrEmptyPattern = errors.New("empty archive pattern")

// Strftime is the default archive formatter.
// The instant is formatted in its own location; convert it first to change zones.
type Strftime struct{}

// New returns a strftime archive formatter.
func New() *Strftime {
	return &Strftime{}
}

// Format renders pattern for the instant and sequence number.
// Identical inputs always produce identical output.
func (s *Strftime) Format(pattern string, instant time.Time, seq int) (string, error) {
	if pattern == "" {
		return "", ErrEmptyPattern
	}

	name, err := strftime.Format(pattern, instant,
		strftime.WithSpecification(Sequence, strftime.Verbatim(strconv.Itoa(seq))))
	if err != nil {
		return "", fmt.Errorf("formatting archive pattern %q: %w", pattern, err)
	}

	if seq > 0 && !HasSequence(pattern) {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + "." + strconv.Itoa(seq) + ext
	}

	return name, nil
}

// Validate reports whether the pattern only uses known verbs.
func Validate(pattern string) error {
	_, err := New().Format(pattern, time.Time{}, 0)

	return err
}

// HasSequence reports whether the pattern contains the %i verb.
func HasSequence(pattern string) bool {
	for i := 0; i < len(pattern)-1; i++ {
		if pattern[i] != '%' {
			continue
		}

		if pattern[i+1] == Sequence {
			return true
		}

		i++ // skip the verb, so %%i is a literal.
	}

	return false
}

// Glob converts a pattern into a filepath.Match glob that matches every name
// the pattern can produce, including sequence-disambiguated ones.
func Glob(pattern string) string {
	ext := filepath.Ext(pattern)
	if strings.Contains(ext, "%") {
		ext = ""
	}

	glob := verbsToStars(strings.TrimSuffix(pattern, ext))
	if !HasSequence(pattern) && !strings.HasSuffix(glob, "*") {
		glob += "*" // room for the .N suffix.
	}

	return glob + ext
}

func verbsToStars(pattern string) string {
	var glob strings.Builder

	for i := 0; i < len(pattern); i++ {
		switch {
		case pattern[i] != '%' || i == len(pattern)-1:
			glob.WriteByte(pattern[i])
		case pattern[i+1] == '%':
			glob.WriteByte('%')
			i++
		default:
			if !strings.HasSuffix(glob.String(), "*") {
				glob.WriteByte('*')
			}
			i++
		}
	}

	return glob.String()
}
