// Package rotateconf builds a rotastream.Config from a YAML or JSON file.
//
//	file: /var/log/service.log
//	pattern: /var/log/archives/service-%Y%m%d-%H%M%S.log
//	utc: true
//	file_mode: "0640"
//	policies:
//	  - type: daily
//	  - type: size
//	    size: 100MB
//	    evaluate: before
//	  - type: cron
//	    cron: "0 */6 * * *"
//	retention:
//	  count: 10
//	  age: 720h
//	compress: true
//	log:
//	  level: debug
//
// Policy types are hourly, daily, weekly, every (with every: <duration>),
// cron (with cron: <expression>) and size (with size: <bytes>, evaluate: before|after).
package rotateconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"golift.io/rotastream"
	"golift.io/rotastream/clock"
	"golift.io/rotastream/compressor"
	"golift.io/rotastream/logcallback"
	"golift.io/rotastream/policy"
	"golift.io/rotastream/retention"
)

// Format is a config file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Errors returned while loading a config file.
var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrParseFailed       = errors.New("failed to parse config")
	ErrUnknownPolicy     = errors.New("unknown policy type")
	ErrInvalidValue      = errors.New("invalid config value")
)

// File is the on-disk rotation configuration.
type File struct {
	File      string    `koanf:"file"`
	Pattern   string    `koanf:"pattern"`
	UTC       bool      `koanf:"utc"`
	FileMode  string    `koanf:"file_mode"` // octal, like "0640".
	DirMode   string    `koanf:"dir_mode"`  // octal, like "0750".
	Policies  []Policy  `koanf:"policies"`
	Retention Retention `koanf:"retention"`
	Compress  bool      `koanf:"compress"`
	Log       Log       `koanf:"log"`
}

// Policy is one rotation trigger.
type Policy struct {
	Type     string        `koanf:"type"`
	Every    time.Duration `koanf:"every"`
	Cron     string        `koanf:"cron"`
	Size     string        `koanf:"size"`     // humanized, like "10MB" or "512KiB".
	Evaluate string        `koanf:"evaluate"` // before or after. Default: after.
}

// Retention limits the archives kept on disk.
type Retention struct {
	Count int           `koanf:"count"`
	Age   time.Duration `koanf:"age"`
}

// Log enables the rotation logging callback when Level is set.
type Log struct {
	Level string `koanf:"level"`
}

// Load reads a config file. The format comes from the extension: .yaml, .yml or .json.
func Load(path string) (*File, error) {
	var format Format

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes config data in the given format.
func Parse(data []byte, format Format) (*File, error) {
	var parser koanf.Parser

	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	file := &File{}
	if err := k.Unmarshal("", file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return file, nil
}

// Config turns the file into a stream configuration. Callbacks run in this
// order: logging, compression, retention.
func (f *File) Config() (*rotastream.Config, error) {
	config := &rotastream.Config{
		File:    f.File,
		Pattern: f.Pattern,
		Clock:   clock.New(),
	}

	if f.UTC {
		config.Clock = clock.UTC()
	}

	var err error

	if config.FileMode, err = parseMode("file_mode", f.FileMode); err != nil {
		return nil, err
	}

	if config.DirMode, err = parseMode("dir_mode", f.DirMode); err != nil {
		return nil, err
	}

	for idx := range f.Policies {
		p, err := f.Policies[idx].policy()
		if err != nil {
			return nil, fmt.Errorf("policy %d: %w", idx, err)
		}

		config.Policies = append(config.Policies, p)
	}

	if f.Log.Level != "" {
		level, err := log.ParseLevel(f.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: log level: %w", ErrInvalidValue, err)
		}

		logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: true, Prefix: "rotastream"})
		config.Callbacks = append(config.Callbacks, logcallback.New(logger))
		config.Printf = logger.Errorf
	}

	if f.Compress {
		config.Callbacks = append(config.Callbacks, &compressor.Compressor{})
	}

	if f.Retention.Count > 0 || f.Retention.Age > 0 {
		config.Callbacks = append(config.Callbacks, &retention.Pruner{
			Pattern:   f.Pattern,
			File:      f.File,
			FileCount: f.Retention.Count,
			FileAge:   f.Retention.Age,
		})
	}

	return config, nil
}

func (p *Policy) policy() (rotastream.Policy, error) {
	switch strings.ToLower(p.Type) {
	case "hourly":
		return policy.Hourly(), nil
	case "daily":
		return policy.Daily(), nil
	case "weekly":
		return policy.Weekly(), nil
	case "every":
		if p.Every <= 0 {
			return nil, fmt.Errorf("%w: every: %v", ErrInvalidValue, p.Every)
		}

		return policy.Every(p.Every), nil
	case "cron":
		sched, err := policy.Cron(p.Cron)
		if err != nil {
			return nil, fmt.Errorf("%w: cron: %w", ErrInvalidValue, err)
		}

		return sched, nil
	case "size":
		return p.size()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, p.Type)
	}
}

func (p *Policy) size() (rotastream.Policy, error) {
	size, err := humanize.ParseBytes(p.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: size %q: %w", ErrInvalidValue, p.Size, err)
	} else if size == 0 {
		return nil, fmt.Errorf("%w: size must be above zero", ErrInvalidValue)
	}

	at := rotastream.AfterWrite

	switch strings.ToLower(p.Evaluate) {
	case "", "after":
	case "before":
		at = rotastream.BeforeWrite
	default:
		return nil, fmt.Errorf("%w: evaluate %q", ErrInvalidValue, p.Evaluate)
	}

	return policy.MaxSize(int64(size), at), nil //nolint:gosec
}

func parseMode(name, mode string) (os.FileMode, error) {
	if mode == "" {
		return 0, nil
	}

	val, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %w", ErrInvalidValue, name, mode, err)
	}

	return os.FileMode(val), nil
}
