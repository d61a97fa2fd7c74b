//go:build !windows

package fsys

import (
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// mountTable lists mounted filesystems. Platforms mountinfo does not support
// return an error and fall back to the path heuristic.
var mountTable = mountinfo.GetMounts

// networkFSTypes are filesystem types served over the network.
var networkFSTypes = map[string]bool{
	"nfs": true, "nfs4": true, "cifs": true, "smbfs": true, "smb3": true,
	"afs": true, "9p": true, "ceph": true, "glusterfs": true,
	"sshfs": true, "fuse.sshfs": true, "davfs": true, "fuse.davfs": true,
	"fuse.glusterfs": true, "fuse.rclone": true,
}

// removableRoots are directories under which desktop systems mount
// removable media.
var removableRoots = []string{"/media/", "/run/media/", "/mnt/", "/Volumes/"}

// classifyDrive finds the mount holding path. A missing file on unmounted
// media resolves to the root mount, so the removable-root heuristic is applied
// to the path as well.
func classifyDrive(path string) DriveKind {
	if !filepath.IsAbs(path) {
		return DriveUnknown
	}
	path = filepath.Clean(path)

	mounts, err := mountTable(holding(path))
	if err != nil {
		if underRemovableRoot(path) {
			return DriveRemovable
		}
		return DriveUnknown
	}

	m := innermost(mounts)
	if m == nil {
		return DriveUnknown
	}
	return classifyMount(m, path)
}

// holding keeps mounts whose mount point is path or one of its parents.
// mountinfo.ParentsFilter compares raw prefixes, so /srv/share would match
// /srv/shared; this one respects path boundaries.
func holding(path string) mountinfo.FilterFunc {
	return func(m *mountinfo.Info) (skip, stop bool) {
		dir := m.Mountpoint
		if dir == "/" {
			return false, false
		}
		return path != dir && !strings.HasPrefix(path, dir+"/"), false
	}
}

// innermost returns the most specific mount. Mounts are listed in mount
// order, so a later mount on the same point shadows an earlier one.
func innermost(mounts []*mountinfo.Info) *mountinfo.Info {
	var best *mountinfo.Info
	for _, m := range mounts {
		if best == nil || len(m.Mountpoint) >= len(best.Mountpoint) {
			best = m
		}
	}
	return best
}

// classifyMount classifies path given the mount that holds it.
func classifyMount(m *mountinfo.Info, path string) DriveKind {
	if networkFSTypes[m.FSType] {
		return DriveNetwork
	}
	if m.Mountpoint != "/" && underRemovableRoot(m.Mountpoint) {
		return DriveRemovable
	}
	if m.Mountpoint == "/" && underRemovableRoot(path) {
		return DriveRemovable
	}
	return DriveFixed
}

func underRemovableRoot(path string) bool {
	for _, root := range removableRoots {
		if strings.HasPrefix(path+"/", root) && path+"/" != root {
			return true
		}
	}
	return false
}
