package rotastream

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golift.io/rotastream/filer"
)

// maxSequence bounds the search for a free archive name.
const maxSequence = 1000

// outcome is the result of one rotation attempt, reported after the lock is released.
type outcome struct {
	policy  Policy
	instant time.Time
	archive string
	err     error
	skipped bool // nothing was rotated and nothing is reported.
}

// rotate runs a full rotation for a trigger that does not hold the lock:
// schedulers and Rotate(). A closed stream returns ErrClosed and reports nothing.
func (s *Stream) rotate(policy Policy, instant time.Time) *outcome {
	s.mu.Lock()

	out := &outcome{policy: policy, instant: instant, skipped: true, err: ErrClosed}
	if !s.closed {
		out = s.rotateLocked(policy, instant)
	}

	s.mu.Unlock()
	s.finish(out)

	return out
}

// rotateLocked closes, archives and reopens the active file. The lock must be held.
// An empty file is not rotated and no callback fires. Otherwise OnTrigger fires
// first and the attempt ends in exactly one of OnSuccess or OnFailure.
// A failed close or rename still reopens the original path so writes can continue;
// only a failed open leaves the stream degraded.
func (s *Stream) rotateLocked(policy Policy, instant time.Time) *outcome {
	out := &outcome{policy: policy, instant: instant}

	if s.sink != nil && s.size == 0 {
		out.skipped = true

		return out
	}

	s.callbacks.trigger(policy, instant)

	if s.sink == nil {
		out.err = fmt.Errorf("%w: %w", ErrUnwritable, s.broken)

		return out
	}

	var errs []error

	old := s.sink
	s.sink, s.size = nil, 0

	closeErr := closeSink(old, s.config.File)
	if closeErr != nil {
		errs = append(errs, closeErr)
	}

	s.callbacks.close(policy, instant, old)

	if closeErr == nil {
		var err error

		if out.archive, err = s.archiveName(instant); err == nil {
			err = s.archive(out.archive)
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	sink, size, err := s.open()
	if err != nil {
		s.broken = err
		errs = append(errs, err)
	} else {
		s.callbacks.open(policy, instant, sink)
		s.sink, s.size, s.broken = sink, size, nil
	}

	out.err = errors.Join(errs...)

	return out
}

// finish reports an outcome to the callbacks.
func (s *Stream) finish(out *outcome) {
	switch {
	case out.skipped:
	case out.err != nil:
		s.callbacks.failure(out.policy, out.instant, out.archive, out.err)
	default:
		s.callbacks.success(out.policy, out.instant, out.archive)
	}
}

// archiveName formats the pattern, adding a sequence number until the name is free.
func (s *Stream) archiveName(instant time.Time) (string, error) {
	for seq := 0; seq < maxSequence; seq++ {
		name, err := s.config.Formatter.Format(s.config.Pattern, instant, seq)
		if err != nil {
			return "", fmt.Errorf("naming archive: %w", err)
		}

		if name != s.config.File && !s.taken(name) {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrArchiveExhausted, s.config.Pattern)
}

// taken reports whether an archive name, or a copy of it with any of the
// archive suffixes (like a compressed ".gz"), already exists.
func (s *Stream) taken(name string) bool {
	if filer.Exists(s.config.Filer, name) {
		return true
	}

	for _, suffix := range s.config.ArchiveSuffixes {
		if filer.Exists(s.config.Filer, name+suffix) {
			return true
		}
	}

	return false
}

// archive moves the closed file to its archive name. Archive folders that
// differ from the file's folder are created; the file's own folder never is.
func (s *Stream) archive(name string) error {
	if dir := filepath.Dir(name); dir != filepath.Dir(s.config.File) {
		if err := s.config.Filer.MkdirAll(dir, s.config.DirMode); err != nil {
			return fmt.Errorf("making archive directory: %w", err)
		}
	}

	if err := s.config.Filer.Rename(s.config.File, name); err != nil {
		return fmt.Errorf("archiving %s: %w", s.config.File, err)
	}

	return nil
}
