// Package fingerprint computes stable content digests for files.
// Digests are compared for equality during deduplication and name
// workspace subfolders; they are never used for security.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/types"
)

// File returns the hex-encoded sha256 digest of the file's full
// content.
func File(fs types.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "cannot fingerprint %s", path)
	}
	return Bytes(data), nil
}

// Bytes returns the hex-encoded sha256 digest of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// String returns the hex-encoded sha256 digest of s. Used to derive
// stable workspace subfolder names from canonical source paths.
func String(s string) string {
	return Bytes([]byte(s))
}
