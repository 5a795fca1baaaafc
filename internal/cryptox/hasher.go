// Package cryptox provides the one-way digest used to store credentials.
//
// Digests are deterministic and unsalted per record: the same plaintext
// always yields the same lowercase hex string of fixed length. This is a
// demo portal, so the digest is not treated as a trust boundary.
package cryptox

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// DigestLen is the length of every digest produced by this package.
const DigestLen = 64

// Hasher turns a plaintext into its digest. Implementations may block,
// so callers pass a context; a cancelled context yields no digest.
type Hasher interface {
	Digest(ctx context.Context, plaintext string) (string, error)
}

// SHA256 digests with a single SHA-256 round.
type SHA256 struct{}

func (SHA256) Digest(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

// Argon2ID digests with Argon2id keyed by a fixed application pepper in
// place of a per-record salt.
type Argon2ID struct {
	Pepper  []byte
	Time    uint32
	Memory  uint32
	Threads uint8
}

// defaultPepper is shared by every record; it is not a secret.
var defaultPepper = []byte("itportal/argon2id/v1")

// NewArgon2ID returns an Argon2ID hasher with the default parameters.
func NewArgon2ID() *Argon2ID {
	return &Argon2ID{Pepper: defaultPepper, Time: 1, Memory: 64 * 1024, Threads: 4}
}

func (a *Argon2ID) Digest(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), a.Pepper, a.Time, a.Memory, a.Threads, DigestLen/2)
	return hex.EncodeToString(key), nil
}

// New returns the hasher registered under name ("sha256" or "argon2id").
func New(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return SHA256{}, nil
	case "argon2id":
		return NewArgon2ID(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// Matches reports whether plaintext digests to digest, comparing in
// constant time.
func Matches(ctx context.Context, h Hasher, plaintext, digest string) (bool, error) {
	candidate, err := h.Digest(ctx, plaintext)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1, nil
}
