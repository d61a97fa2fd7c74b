//go:build windows

package fsys

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// classifyDrive asks Windows for the type of the volume holding path.
// UNC paths resolve to their share root and report as remote.
func classifyDrive(path string) DriveKind {
	vol := filepath.VolumeName(path)
	if vol == "" {
		return DriveUnknown
	}
	root, err := windows.UTF16PtrFromString(vol + `\`)
	if err != nil {
		return DriveUnknown
	}

	switch windows.GetDriveType(root) {
	case windows.DRIVE_FIXED, windows.DRIVE_RAMDISK:
		return DriveFixed
	case windows.DRIVE_REMOVABLE, windows.DRIVE_CDROM:
		return DriveRemovable
	case windows.DRIVE_REMOTE:
		return DriveNetwork
	default:
		return DriveUnknown
	}
}
