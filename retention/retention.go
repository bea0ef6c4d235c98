// Package retention provides a rotastream.Callback that deletes old archives.
// Archives are limited by count (number of files) and by age (of files).
// Files are found with the glob of the archive pattern, so anything the
// pattern can produce is a candidate, including compressed copies that end
// in .gz. The active file is never deleted.
package retention

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"golift.io/rotastream"
	"golift.io/rotastream/filer"
	"golift.io/rotastream/pattern"
)

// GZext is appended to the archive glob to find compressed archives.
const GZext = ".gz"

// Pruner deletes archives after every successful rotation.
type Pruner struct {
	rotastream.NopCallback
	filer.Filer

	Pattern   string        // REQUIRED: The stream's archive pattern.
	File      string        // The stream's active file. Never deleted.
	FileCount int           // Maximum number of archives. 0 keeps them all.
	FileAge   time.Duration // Maximum age of archives. 0 keeps them all.
	// Overridable procedures. Setting these is very optional.
	Clock  clockwork.Clock            // Default: real clock.
	Printf func(msg string, v ...any) // Receives pruning errors. Default: log.Errorf.
}

// OnSuccess satisfies the rotastream.Callback interface.
func (p *Pruner) OnSuccess(rotastream.Policy, time.Time, string) {
	if err := p.Prune(); err != nil {
		p.printf("rotastream: pruning archives: %v", err)
	}
}

// Prune deletes any archives that are older than FileAge.
// Then it deletes the oldest archives if we're over our FileCount.
func (p *Pruner) Prune() error {
	if p.FileAge <= 0 && p.FileCount <= 0 {
		return nil
	}

	files, err := p.archives()
	if err != nil {
		return err
	}

	gone := make(map[string]struct{})

	if p.FileAge > 0 {
		for idx, when := range files.value {
			if p.clock().Since(when) < p.FileAge {
				continue
			}

			if err := p.filer().Remove(files.Files[idx]); err != nil {
				return fmt.Errorf("removing old archive: %w", err)
			}

			gone[files.Files[idx]] = struct{}{}
		}
	}

	count := len(files.Files) - len(gone)

	if p.FileCount > 0 {
		for _, fileName := range files.Files {
			if count <= p.FileCount {
				return nil
			}

			if _, ok := gone[fileName]; ok {
				continue // already deleted this one.
			}

			if err := p.filer().Remove(fileName); err != nil {
				return fmt.Errorf("removing extra archive: %w", err)
			}

			count--
		}
	}

	return nil
}

// archives finds every file the pattern could have produced, oldest first.
func (p *Pruner) archives() (*backupFiles, error) {
	list := &backupFiles{Files: []string{}, value: []time.Time{}}
	glob := pattern.Glob(p.Pattern)
	seen := map[string]struct{}{p.File: {}}

	for _, expr := range []string{glob, glob + GZext} {
		names, err := p.filer().Glob(expr)
		if err != nil {
			return nil, fmt.Errorf("listing archives: %w", err)
		}

		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}

			info, err := p.filer().Stat(name)
			if err != nil || info.IsDir() {
				continue // gone already, or not our file.
			}

			list.Files = append(list.Files, name)
			list.value = append(list.value, info.ModTime())
		}
	}

	sort.Sort(list)

	return list, nil
}

func (p *Pruner) filer() filer.Filer {
	if p.Filer == nil {
		return filer.Default()
	}

	return p.Filer
}

func (p *Pruner) clock() clockwork.Clock {
	if p.Clock == nil {
		return clockwork.NewRealClock()
	}

	return p.Clock
}

func (p *Pruner) printf(msg string, v ...any) {
	if p.Printf == nil {
		log.Errorf(msg, v...)
		return
	}

	p.Printf(msg, v...)
}

// Our Pruner must satify a rotastream.Callback.
var _ rotastream.Callback = (*Pruner)(nil)
