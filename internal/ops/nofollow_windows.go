//go:build windows

package ops

// Windows has no O_NOFOLLOW; resolveBookmarkFile rejects symlinks up front.
const openNoFollow = 0

func isSymlinkErr(error) bool {
	return false
}
