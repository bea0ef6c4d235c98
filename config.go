package rotastream

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golift.io/rotastream/clock"
	"golift.io/rotastream/filer"
	"golift.io/rotastream/pattern"
)

// These are the default directory and log file POSIX modes.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o750
)

// DefaultSuffixes marks an archive name as taken when its gzip copy exists.
var DefaultSuffixes = []string{".gz"} //nolint:gochecknoglobals

// Configuration errors returned by New.
var (
	ErrEmptyFile      = errors.New("file path is required")
	ErrEmptyPattern   = errors.New("archive pattern is required")
	ErrInvalidPattern = errors.New("invalid archive pattern")
	ErrNilPolicy      = errors.New("nil policy provided")
	ErrNilCallback    = errors.New("nil callback provided")
)

// Config is the data needed to create a new Stream.
// New copies it; changing a Config after New has no effect on the Stream.
type Config struct {
	File      string      // REQUIRED: Full path to the active file.
	Pattern   string      // REQUIRED: strftime pattern for archive names. See the pattern package.
	Policies  []Policy    // Rotation triggers. A Stream without policies only rotates on Rotate().
	Callbacks []Callback  // Rotation observers, called in this order.
	FileMode  os.FileMode // POSIX mode for new files.
	DirMode   os.FileMode // POSIX mode for new folders.
	// Archive names with a sibling ending in one of these are taken, so
	// compressed archives are never overwritten. Default: DefaultSuffixes.
	ArchiveSuffixes []string
	// Overridable procedures. Setting these is very optional.
	Clock     clock.Clock                // Time source for policies and archive names. Default: local wall clock.
	Formatter Formatter                  // Archive name formatter. Default: pattern.New().
	Filer     filer.Filer                // File system procedures. Default: filer.Default().
	Printf    func(msg string, v ...any) // Diagnostic sink for callback panics and policy errors.
}

// normalize validates the config and returns a copy with defaults filled in.
func (c *Config) normalize() (*Config, error) {
	if c == nil || c.File == "" {
		return nil, ErrEmptyFile
	}

	if c.Pattern == "" {
		return nil, ErrEmptyPattern
	}

	cfg := *c
	cfg.Policies = append([]Policy(nil), c.Policies...)
	cfg.Callbacks = append([]Callback(nil), c.Callbacks...)

	for idx, policy := range cfg.Policies {
		if policy == nil {
			return nil, fmt.Errorf("%w: policy %d", ErrNilPolicy, idx)
		}
	}

	for idx, callback := range cfg.Callbacks {
		if callback == nil {
			return nil, fmt.Errorf("%w: callback %d", ErrNilCallback, idx)
		}
	}

	if cfg.FileMode == 0 {
		cfg.FileMode = FileMode
	}

	if cfg.DirMode == 0 {
		cfg.DirMode = DirMode
	}

	if cfg.ArchiveSuffixes == nil {
		cfg.ArchiveSuffixes = DefaultSuffixes
	}

	cfg.ArchiveSuffixes = append([]string(nil), cfg.ArchiveSuffixes...)

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.Filer == nil {
		cfg.Filer = filer.Default()
	}

	if cfg.Printf == nil {
		cfg.Printf = log.Errorf
	}

	if cfg.Formatter == nil {
		if err := pattern.Validate(cfg.Pattern); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}

		cfg.Formatter = pattern.New()
	}

	name, err := cfg.Formatter.Format(cfg.Pattern, cfg.Clock.Now(), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	} else if name == cfg.File {
		return nil, fmt.Errorf("%w: archives would overwrite %s", ErrInvalidPattern, cfg.File)
	}

	return &cfg, nil
}

// dirs returns the directories to create on startup: the file's folder, and the
// archive folder when it is fixed (has no verbs) and differs.
func (c *Config) dirs() []string {
	dirs := []string{filepath.Dir(c.File)}

	if archive := filepath.Dir(c.Pattern); archive != dirs[0] && !strings.Contains(archive, "%") {
		dirs = append(dirs, archive)
	}

	return dirs
}
