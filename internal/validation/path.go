// Package validation checks user-supplied file paths and source references
// before the icon tooling reads from or writes to them.
package validation

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ValidateOutputPath verifies that outputPath can be written: it must not
// climb out of its directory, and its parent must exist, be a directory and
// accept new files.
func ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	// Reject ".." segments before cleaning can hide them
	if hasParentRef(outputPath) {
		return fmt.Errorf("path traversal detected in output path: %s", outputPath)
	}

	// Resolve to an absolute path
	absPath, err := filepath.Abs(filepath.Clean(outputPath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	dir := filepath.Dir(absPath)

	// Check the parent directory exists
	dirInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}
	if !dirInfo.IsDir() {
		return fmt.Errorf("output path parent is not a directory: %s", dir)
	}

	// Check the directory is writable by creating a throwaway file
	probe, err := os.CreateTemp(dir, ".iconset_write_test_*")
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name()) // Clean up probe file

	return nil
}

// ValidateInputPath verifies that inputPath exists and is a directory when
// mustBeDir is set, or a regular file otherwise. Relative paths may not
// reference a parent directory.
func ValidateInputPath(inputPath string, mustBeDir bool) error {
	if inputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	// Relative paths may not climb out of the working directory
	if !filepath.IsAbs(inputPath) && hasParentRef(inputPath) {
		return fmt.Errorf("potentially unsafe path detected: %s", inputPath)
	}

	// Check if path exists
	cleanPath := filepath.Clean(inputPath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input path does not exist: %s", cleanPath)
		}
		return fmt.Errorf("failed to access input path: %w", err)
	}

	// Directories for manifests, regular files for icons
	if mustBeDir && !info.IsDir() {
		return fmt.Errorf("input path must be a directory: %s", cleanPath)
	}
	if !mustBeDir && !info.Mode().IsRegular() {
		return fmt.Errorf("input path must be a file: %s", cleanPath)
	}
	return nil
}

// IsRemoteRef reports whether ref names an http or https resource.
func IsRemoteRef(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ValidateSourceURL verifies that raw is an absolute http(s) URL with a host
// and no embedded credentials.
func ValidateSourceURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid source URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q (want http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("source URL has no host: %s", raw)
	}
	// No embedded credentials
	if u.User != nil {
		return fmt.Errorf("source URL must not embed credentials")
	}
	return nil
}

// hasParentRef reports whether any element of path is "..".
func hasParentRef(path string) bool {
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return true
		}
	}
	return false
}
