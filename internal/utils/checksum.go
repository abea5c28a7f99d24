package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"
)

// SHA1Size is the length of a hex-encoded SHA-1 digest
const SHA1Size = 40

// NewSHA1 returns the digest used to verify archives
func NewSHA1() hash.Hash {
	return sha1.New()
}

// HexDigest returns the lower-case hex string of h's current sum
func HexDigest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// FileSHA1 streams a file through SHA-1 and returns its hex digest and size
func FileSHA1(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha1.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}

	return HexDigest(h), n, nil
}

// ChecksumEqual compares two hex digests case-insensitively
func ChecksumEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsValidSHA1 returns true if s is a 40 character hex string
func IsValidSHA1(s string) bool {
	if len(s) != SHA1Size {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
