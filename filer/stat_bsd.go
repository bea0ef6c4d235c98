//go:build darwin || freebsd

package filer

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// Stat returns a *FileInfo struct w/ attached os.FileInfo interface.
// The BSDs record a birth time, so CreateTime is the real creation time.
func Stat(filename string) (*FileInfo, error) {
	fileStat, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("stat err: %w", err)
	}

	fileInfo, ok := fileStat.Sys().(*syscall.Stat_t)
	if !ok {
		return &FileInfo{FileInfo: fileStat, CreateTime: fileStat.ModTime()}, nil
	}

	return &FileInfo{
		FileInfo:   fileStat,
		CreateTime: time.Unix(int64(fileInfo.Birthtimespec.Sec), int64(fileInfo.Birthtimespec.Nsec)), //nolint:unconvert
	}, nil
}
