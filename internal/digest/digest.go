// Package digest compares files by content hash.
//
// The hash only answers "are these two files byte-identical" inside a
// directory we own. It is not an integrity or security guarantee, which is
// why MD5 remains the default.
package digest

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

const chunkSize = 4096

// Algorithm names accepted by New.
const (
	MD5    = "md5"
	SHA256 = "sha256"
	BLAKE3 = "blake3"
)

// Hasher streams files through a hash function.
type Hasher struct {
	algo    string
	newHash func() hash.Hash
}

// New returns a Hasher for the named algorithm. An empty name selects MD5.
func New(algo string) (*Hasher, error) {
	switch algo {
	case "", MD5:
		return &Hasher{algo: MD5, newHash: md5.New}, nil
	case SHA256:
		return &Hasher{algo: SHA256, newHash: sha256.New}, nil
	case BLAKE3:
		return &Hasher{algo: BLAKE3, newHash: func() hash.Hash { return blake3.New() }}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algo)
	}
}

// Algorithm returns the algorithm name.
func (h *Hasher) Algorithm() string { return h.algo }

// HashFile reads path in fixed-size chunks and returns its digest.
func (h *Hasher) HashFile(path string) (sum []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	hw := h.newHash()
	buf := make([]byte, chunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			hw.Write(buf[:n])
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("reading %s: %w", path, rerr)
		}
	}

	return hw.Sum(nil), nil
}

// Identical reports whether a and b hash to the same digest. Any failure
// on either side counts as "not identical".
func (h *Hasher) Identical(a, b string) bool {
	sa, err := h.HashFile(a)
	if err != nil {
		return false
	}
	sb, err := h.HashFile(b)
	if err != nil {
		return false
	}
	return bytes.Equal(sa, sb)
}
