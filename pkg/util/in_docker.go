// Package util contains small helpers that don't fit any other package
package util

import "os"

// IsRunningInDocker reports whether the process runs inside a Docker container
func IsRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// WarnIfEphemeral returns a warning when path does not exist yet inside a
// container, because anything created there is lost with the container
func WarnIfEphemeral(path string) string {
	if !IsRunningInDocker() {
		return ""
	}

	if _, err := os.Stat(path); err != nil {
		return path + " is not mounted, data written there won't survive a container restart. Use docker volumes to mount it"
	}

	return ""
}
