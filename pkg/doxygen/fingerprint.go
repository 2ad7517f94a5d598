package doxygen

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Fingerprint hashes every *.xml file in dir, names and contents, in a
// stable order. Two directories with the same fingerprint load to the same
// records, which makes it usable as a cache key.
func Fingerprint(dir string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		if err := hashFile(h, p); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = io.WriteString(w, filepath.Base(path)+"\x00")
	_, err = io.Copy(w, f)
	return err
}
