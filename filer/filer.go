// Package filer is the file system surface used by the rotastream packages.
// You may override this to gain more control of operations in your app,
// or to inject failures in tests.
package filer

//go:generate mockgen -destination=../mocks/filer.go -package=mocks golift.io/rotastream/filer Filer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Filer is used to override file-managing procedures.
type Filer interface {
	Remove(fileName string) error
	Rename(fileName, newPath string) error
	Glob(pattern string) ([]string, error)
	MkdirAll(path string, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Stat(filename string) (*FileInfo, error)
}

// Default returns a Filer interface that works, using default procedures.
func Default() Filer {
	return &File{}
}

// FileInfo contains normal os.FileInfo + file creation time.
// Created by Stat().
type FileInfo struct {
	os.FileInfo
	CreateTime time.Time
}

// File can be embedded in a custom type to provide the missing methods for the Filer interface.
type File struct{}

// Remove provides os.Remove.
func (f *File) Remove(fileName string) error {
	return os.Remove(fileName)
}

// Rename provides os.Rename.
func (f *File) Rename(fileName, newPath string) error {
	return os.Rename(fileName, newPath)
}

// Glob provides filepath.Glob.
func (f *File) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// MkdirAll provides os.MkdirAll.
func (f *File) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// OpenFile provides os.OpenFile.
func (f *File) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// Stat provides custom file stats that wrap os.Stat output.
func (f *File) Stat(filename string) (*FileInfo, error) {
	return Stat(filename)
}

// Exists reports whether a path is taken. Any Stat error other than
// "does not exist" counts as taken, so callers never overwrite what they cannot see.
func Exists(f Filer, path string) bool {
	_, err := f.Stat(path)

	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
