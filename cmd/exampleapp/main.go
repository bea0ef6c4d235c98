// Package main is a simple example app to write logs to see log rotation in action.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golift.io/rotastream"
	"golift.io/rotastream/rotateconf"
)

// ///////////////////////////////////////////////////////////////////////// //

/* This is a simple example app to write logs to see log rotation in action. */

// Usage, size rotation with compression:
//   go run ./cmd/exampleapp --size 1MB --compress
//
// Usage, rotate every interval and log each rotation step:
//   go run ./cmd/exampleapp --every 2s --verbose
//
// Usage, everything from a config file:
//   go run ./cmd/exampleapp --config rotate.yaml
//
// Send SIGHUP to rotate by hand. Ctrl-C closes the stream and exits.

const (
	logFilePath     = "/tmp/myfolder/myfile.log"
	archivePattern  = "/tmp/myfolder/myfile-%Y%m%d-%H%M%S.log"
	bytesPerLogLine = 5000
	timeBetweenLogs = time.Millisecond * 5
	fileCount       = 10
)

// ///////////////////////////////////////////////////////////////////////// //

func main() {
	app := &cli.Command{
		Name:  "exampleapp",
		Usage: "write fake logs into a rotating file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML or JSON rotation config; other flags are ignored"},
			&cli.StringFlag{Name: "file", Value: logFilePath, Usage: "active log file"},
			&cli.StringFlag{Name: "pattern", Value: archivePattern, Usage: "strftime archive pattern"},
			&cli.StringFlag{Name: "size", Value: "1MB", Usage: "rotate after the file grows past this size"},
			&cli.DurationFlag{Name: "every", Usage: "also rotate on this interval"},
			&cli.BoolFlag{Name: "daily", Usage: "also rotate at midnight"},
			&cli.BoolFlag{Name: "compress", Usage: "gzip archives after rotation"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every rotation step"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal("exampleapp", "err", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	config, err := getConfig(cmd)
	if err != nil {
		return err
	}

	stream, err := rotastream.New(config)
	if err != nil {
		return fmt.Errorf("creating stream: %w", err)
	}
	defer stream.Close()

	go rotateOnHangup(ctx, stream)

	makeLogs(ctx, log.New(stream))

	return nil
}

// getConfig reads a config file, or builds the same thing from flags.
func getConfig(cmd *cli.Command) (*rotastream.Config, error) {
	if path := cmd.String("config"); path != "" {
		file, err := rotateconf.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		return file.Config() //nolint:wrapcheck
	}

	file := &rotateconf.File{
		File:      cmd.String("file"),
		Pattern:   cmd.String("pattern"),
		Compress:  cmd.Bool("compress"),
		Retention: rotateconf.Retention{Count: fileCount},
		Policies:  []rotateconf.Policy{{Type: "size", Size: cmd.String("size")}},
	}

	if every := cmd.Duration("every"); every > 0 {
		file.Policies = append(file.Policies, rotateconf.Policy{Type: "every", Every: every})
	}

	if cmd.Bool("daily") {
		file.Policies = append(file.Policies, rotateconf.Policy{Type: "daily"})
	}

	if cmd.Bool("verbose") {
		file.Log.Level = "debug"
	}

	return file.Config() //nolint:wrapcheck
}

// Write fake logs!
func makeLogs(ctx context.Context, logger *log.Logger) {
	logLine := string(bytes.Repeat([]byte{'_'}, bytesPerLogLine))

	ticker := time.NewTicker(timeBetweenLogs)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-ticker.C:
			fmt.Print(".")
			logger.Info(logLine)
		}
	}
}

func rotateOnHangup(ctx context.Context, stream *rotastream.Stream) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGHUP)

	defer signal.Stop(sigc)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigc:
			archive, err := stream.Rotate()
			fmt.Printf("\nrotated by hand: %s %v\n", archive, err)
		}
	}
}
