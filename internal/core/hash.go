package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
)

// HashFile computes the SHA256 hash of a file's contents.
//
// It is used by Verify to check that a downloaded paper has not changed since
// it was recorded in the ledger. The file is streamed, not loaded at once.
//
// Returns:
//   - A 64-character lowercase hexadecimal string
//   - An error if the file cannot be opened or read
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes is HashFile for a payload already in memory.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path, so a reader never sees a half-written paper.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// fileExists checks whether a file or directory exists at the given path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// firstNonEmpty returns a if it is not empty, otherwise b.
//
// Common use case: an environment override (if set) or the file setting.
func firstNonEmpty(a, b string) string {
	if len(a) > 0 {
		return a
	}
	return b
}
