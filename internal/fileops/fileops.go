package fileops

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory (and parents) if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// DirExists checks if path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsSubtitleFile checks if the file has a recognized subtitle extension.
// The .ssa extension is matched only when includeSSA is set.
func IsSubtitleFile(path string, includeSSA bool) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass":
		return true
	case ".ssa":
		return includeSSA
	default:
		return false
	}
}

// ReplaceExtension swaps the extension of a filename.
// Examples: ReplaceExtension("show.ass", ".srt") → "show.srt".
func ReplaceExtension(path, newExt string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + newExt
}
