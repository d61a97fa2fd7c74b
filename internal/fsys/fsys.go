// Package fsys answers the questions reconciliation asks of the filesystem:
// does a file exist, how long is it, and what kind of drive holds it.
package fsys

import (
	"fmt"
	"os"
)

// DriveKind classifies the storage behind a path.
type DriveKind int

const (
	DriveUnknown DriveKind = iota
	DriveFixed
	DriveRemovable
	DriveNetwork
)

// String returns the drive kind name.
func (k DriveKind) String() string {
	switch k {
	case DriveFixed:
		return "fixed"
	case DriveRemovable:
		return "removable"
	case DriveNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// FileInfo is the subset of file metadata reconciliation needs.
type FileInfo struct {
	Length int64
}

// FileSystem is the filesystem oracle.
type FileSystem interface {
	Exists(path string) bool
	Stat(path string) (FileInfo, error)
	ClassifyDrive(path string) DriveKind
}

// OS is the FileSystem backed by the host operating system.
type OS struct{}

// Exists reports whether path can be stat'ed.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stat returns the length of the regular file at path.
func (OS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	if info.IsDir() {
		return FileInfo{}, fmt.Errorf("%s is a directory", path)
	}
	return FileInfo{Length: info.Size()}, nil
}

// ClassifyDrive classifies the drive holding path. See drive_unix.go and
// drive_windows.go.
func (OS) ClassifyDrive(path string) DriveKind {
	return classifyDrive(path)
}
