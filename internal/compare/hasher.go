package compare

import (
	"crypto/md5"  // #nosec G501 -- artifact fingerprinting only
	"crypto/sha1" // #nosec G505 -- artifact fingerprinting only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

func newHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "SHA256":
		return sha256.New(), nil
	case "SHA1":
		return sha1.New(), nil // #nosec G401
	case "SHA512":
		return sha512.New(), nil
	case "MD5":
		return md5.New(), nil // #nosec G401
	default:
		return nil, fmt.Errorf("unsupported algorithm: %q", algorithm)
	}
}

// DigestRange hashes length bytes of path starting at start.
func DigestRange(path, algorithm string, start, length int64) (string, error) {
	if start < 0 || length < 0 {
		return "", fmt.Errorf("invalid range: start=%d length=%d", start, length)
	}
	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	n, err := io.Copy(h, io.NewSectionReader(f, start, length))
	if err != nil {
		return "", err
	}
	if n != length {
		return "", fmt.Errorf("%s: short read at offset %d (wanted %d bytes, got %d)", path, start, length, n)
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
