package rotastream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Custom errors returned by a Stream.
var (
	ErrClosed           = errors.New("stream is closed")
	ErrUnwritable       = errors.New("no active file; stream is unwritable until recovered")
	ErrArchiveExhausted = errors.New("no free archive name")
)

// Stream is what you get in return for providing a Config. Use this to set log output.
// You must obtain a Stream by calling New(). All methods are safe for concurrent use.
type Stream struct {
	config     *Config
	callbacks  *callbacks
	sizers     []SizePolicy
	schedulers []*scheduler
	closing    atomic.Bool // set once Close begins; size policies stop triggering.

	mu     sync.Mutex // guards everything below, and the whole rotation routine.
	sink   Sink       // the active file. nil while degraded or closed.
	size   int64      // the size of the active file.
	broken error      // why sink is nil while degraded.
	closed bool
}

// New takes in your configuration and returns a Stream you can use with
// log.SetOutput(). The active file is opened (appended to if it exists) and
// a scheduler is started for every time-based policy. Configuration errors
// are returned before anything starts.
func New(config *Config) (*Stream, error) {
	cfg, err := config.normalize()
	if err != nil {
		return nil, err
	}

	stream := &Stream{
		config:    cfg,
		callbacks: &callbacks{list: cfg.Callbacks, printf: cfg.Printf},
	}

	for _, dir := range cfg.dirs() {
		if err := cfg.Filer.MkdirAll(dir, cfg.DirMode); err != nil {
			return nil, fmt.Errorf("making directories for files: %w", err)
		}
	}

	if stream.sink, stream.size, err = stream.open(); err != nil {
		return nil, err
	}

	for _, policy := range cfg.Policies {
		if sizer, ok := policy.(SizePolicy); ok {
			stream.sizers = append(stream.sizers, sizer)
		}

		if timer, ok := policy.(TimePolicy); ok {
			sched := newScheduler(timer, cfg.Clock, stream.fire, stream.policyFailed)
			stream.schedulers = append(stream.schedulers, sched)
		}
	}

	for _, sched := range stream.schedulers {
		sched.start()
	}

	return stream, nil
}

// File returns the path of the active file.
func (s *Stream) File() string {
	return s.config.File
}

// Write sends data to the active file. This satisfies the io.Writer interface.
// Size policies are checked before and after the bytes are written, and
// may rotate the file inside this call.
func (s *Stream) Write(b []byte) (int, error) {
	s.mu.Lock()
	size, outcomes, err := s.write(b)
	s.mu.Unlock()

	for _, out := range outcomes {
		s.finish(out)
	}

	return size, err
}

// write runs with the lock held. Rotation outcomes are reported after it is released.
func (s *Stream) write(b []byte) (int, []*outcome, error) {
	if s.closed {
		return 0, nil, ErrClosed
	}

	var outcomes []*outcome

	if policy := s.sizeTrigger(BeforeWrite, s.size, int64(len(b))); policy != nil && s.size > 0 {
		outcomes = append(outcomes, s.rotateLocked(policy, s.config.Clock.Now()))
	}

	if s.sink == nil {
		return 0, outcomes, fmt.Errorf("%w: %w", ErrUnwritable, s.broken)
	}

	size, err := s.sink.Write(b)
	s.size += int64(size)

	if err != nil {
		return size, outcomes, fmt.Errorf("writing %s: %w", s.config.File, err)
	}

	if policy := s.sizeTrigger(AfterWrite, s.size-int64(size), int64(size)); policy != nil {
		outcomes = append(outcomes, s.rotateLocked(policy, s.config.Clock.Now()))
	}

	return size, outcomes, nil
}

// sizeTrigger returns the first size policy that wants a rotation.
func (s *Stream) sizeTrigger(at Evaluation, written, incoming int64) SizePolicy {
	if s.closing.Load() {
		return nil
	}

	for _, policy := range s.sizers {
		if policy.ShouldRotate(at, written, incoming) {
			return policy
		}
	}

	return nil
}

// Flush flushes the active file.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return ErrClosed
	case s.sink == nil:
		return fmt.Errorf("%w: %w", ErrUnwritable, s.broken)
	}

	if err := s.sink.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.config.File, err)
	}

	return nil
}

// Rotate forces the file to rotate immediately and returns the archive path.
// Callbacks see the Manual policy. Rotating an empty file does nothing,
// fires no callbacks and returns an empty path.
func (s *Stream) Rotate() (string, error) {
	if s.closing.Load() {
		return "", ErrClosed
	}

	out := s.rotate(Manual, s.config.Clock.Now())

	return out.archive, out.err
}

// Recover opens the active file again after a failed rotation left the stream
// without one. It does nothing if a file is already open.
func (s *Stream) Recover() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if s.sink != nil {
		return nil
	}

	sink, size, err := s.open()
	if err != nil {
		s.broken = err

		return err
	}

	s.sink, s.size, s.broken = sink, size, nil

	return nil
}

// Close stops every scheduler, waits for an in-flight rotation, then closes the
// active file. Calling Close more than once returns ErrClosed.
func (s *Stream) Close() error {
	if !s.closing.CompareAndSwap(false, true) {
		return ErrClosed
	}

	for _, sched := range s.schedulers {
		sched.cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	if s.sink == nil {
		return nil
	}

	err := closeSink(s.sink, s.config.File)
	s.sink = nil

	return err
}

// open opens the active file for appending, creating it if needed.
// The directory is not created here, so a missing folder is an error.
func (s *Stream) open() (Sink, int64, error) {
	file, err := s.config.Filer.OpenFile(s.config.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, s.config.FileMode)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", s.config.File, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, 0, fmt.Errorf("checking %s: %w", s.config.File, err)
	}

	return &fileSink{File: file}, info.Size(), nil
}

// fileSink is the default Sink: an unbuffered file. Flush syncs it to disk.
type fileSink struct {
	*os.File
}

func (f *fileSink) Flush() error {
	return f.Sync() //nolint:wrapcheck
}

func closeSink(sink Sink, name string) error {
	flushErr := sink.Flush()
	closeErr := sink.Close()

	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}

	return nil
}

// Our Stream must satify an io.WriteCloser.
var _ io.WriteCloser = (*Stream)(nil)
