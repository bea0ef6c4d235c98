// Package compressor provides a rotastream.Callback that gzips archives
// after every successful rotation. The archive is replaced by a copy ending in .gz.
package compressor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"golift.io/rotastream"
	"golift.io/rotastream/filer"
)

// SuffixGZ is appended to a fileName to make the new compressed file name.
const SuffixGZ = ".gz"

// ErrExists is returned when the compressed file name is already taken.
// The existing file is left alone and the source is not removed.
var ErrExists = errors.New("compressed file already exists")

// Report contains a report of the compression operation.
// Always check for Error to make sure the New* data is valid.
type Report struct {
	OldFile string
	NewFile string
	OldSize int64
	NewSize int64
	Elapsed time.Duration
	Error   error
}

// Compressor compresses archives. The zero value compresses inline at the
// default level and logs every report with the charmbracelet logger.
type Compressor struct {
	rotastream.NopCallback
	filer.Filer

	Level      int                        // gzip level. 0 means gzip.DefaultCompression.
	Background bool                       // Compress in a go routine. Call Wait after the stream's Close.
	Report     func(report *Report)       // Receives every report. Default: Log with Printf.
	Printf     func(msg string, v ...any) // Used by the default Report. Default: log.Infof.

	wg sync.WaitGroup
}

// OnSuccess satisfies the rotastream.Callback interface.
func (c *Compressor) OnSuccess(_ rotastream.Policy, _ time.Time, archive string) {
	if !c.Background {
		report, _ := c.Compress(archive)
		c.report(report)

		return
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		report, _ := c.Compress(archive)
		c.report(report)
	}()
}

// Wait blocks until every background compression finishes.
// Call it after closing the stream so no compression outlives your program.
func (c *Compressor) Wait() {
	c.wg.Wait()
}

func (c *Compressor) report(report *Report) {
	if c.Report != nil {
		c.Report(report)
		return
	}

	Log(report, c.Printf)
}

func (c *Compressor) filer() filer.Filer {
	if c.Filer == nil {
		return filer.Default()
	}

	return c.Filer
}

// Compress gzips a file and returns a report. Blocks until finished.
// The source file is removed once the compressed copy is written.
func (c *Compressor) Compress(fileName string) (*Report, error) {
	report := &Report{OldFile: fileName, NewFile: fileName + SuffixGZ}

	level := c.Level
	if level == 0 || level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	oldFile, err := c.filer().Stat(report.OldFile)
	if report.Error = err; report.Error != nil {
		return report, fmt.Errorf("stating old file: %w", report.Error)
	}

	report.OldSize = oldFile.Size()
	start := time.Now()
	report.NewSize, report.Error = c.compress(report.OldFile, report.NewFile, oldFile.Mode(), level)
	report.Elapsed = time.Since(start)

	if report.Error != nil {
		return report, fmt.Errorf("compressor error: %w", report.Error)
	}

	return report, nil
}

// Log sends a report to a custom procedure.
func Log(report *Report, printf func(msg string, v ...any)) {
	if printf == nil {
		printf = log.Infof
	}

	if report.Error != nil {
		printf("Compression Error after %v: %v", report.Elapsed.Round(time.Millisecond), report.Error)
	} else {
		printf("Compression Finished in %v: %s/%s -> %s/%s", report.Elapsed.Round(time.Millisecond),
			report.OldFile, humanize.IBytes(uint64(report.OldSize)), //nolint:gosec
			report.NewFile, humanize.IBytes(uint64(report.NewSize))) //nolint:gosec
	}
}

// compress opens the old file, creates the new file with a gzip writer on it,
// copies one into the other and closes everything. The old file is deleted on
// success; a new file this call created is deleted on failure. Returns the new file's size.
func (c *Compressor) compress(oldFile, newFile string, mode os.FileMode, level int) (size int64, err error) {
	var (
		files   = c.filer()
		created bool
	)

	defer func() {
		switch {
		case err == nil:
			_ = files.Remove(oldFile)
		case created:
			_ = files.Remove(newFile)
		}
	}()

	src, err := files.OpenFile(oldFile, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dst, err := files.OpenFile(newFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if errors.Is(err, fs.ErrExist) {
		return 0, fmt.Errorf("%w: %s", ErrExists, newFile)
	} else if err != nil {
		return 0, fmt.Errorf("opening gz file: %w", err)
	}

	created = true

	gzw, err := gzip.NewWriterLevel(dst, level)
	if err != nil {
		_ = dst.Close()
		return 0, fmt.Errorf("creating gzip writer: %w", err)
	}

	gzw.Comment = reflect.TypeFor[Report]().PkgPath()

	if _, err = io.Copy(gzw, src); err != nil {
		_ = gzw.Close()
		_ = dst.Close()

		return 0, fmt.Errorf("%s -> %s: %w", oldFile, newFile, err)
	}

	if err = errors.Join(gzw.Close(), dst.Close()); err != nil {
		return 0, fmt.Errorf("closing gz file: %w", err)
	}

	info, err := files.Stat(newFile)
	if err != nil {
		return 0, fmt.Errorf("stating gz file: %w", err)
	}

	return info.Size(), nil
}

// Our Compressor must satify a rotastream.Callback.
var _ rotastream.Callback = (*Compressor)(nil)
