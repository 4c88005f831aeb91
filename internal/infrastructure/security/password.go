package security

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	argon2Prefix = "$argon2id$"
)

// Argon2Params defines the memory and CPU cost factors for argon2id.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

var errUnknownHashFormat = errors.New("unknown password hash format")

// HashObserver receives the duration of each "hash" or "verify" call.
type HashObserver func(op string, d time.Duration)

// PasswordHasher hashes with one configured algorithm and verifies any hash
// it recognises, so changing the algorithm leaves existing accounts usable.
type PasswordHasher struct {
	algorithm  string
	bcryptCost int
	argon2     Argon2Params
	observe    HashObserver
}

// NewPasswordHasher validates the algorithm and cost up front.
func NewPasswordHasher(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		algorithm = AlgorithmBcrypt
	case AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{algorithm: algorithm, bcryptCost: bcryptCost, argon2: DefaultArgon2Params}, nil
}

// WithObserver returns a copy of h that reports call durations to fn.
func (h *PasswordHasher) WithObserver(fn HashObserver) *PasswordHasher {
	cp := *h
	cp.observe = fn
	return &cp
}

func (h *PasswordHasher) track(op string, start time.Time) {
	if h.observe != nil {
		h.observe(op, time.Since(start))
	}
}

// Hash derives a salted one-way digest of password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	defer h.track("hash", start)

	if h.algorithm == AlgorithmArgon2id {
		return h.hashArgon2(password)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify re-derives the digest from password and the salt stored in
// encodedHash and compares in constant time. A mismatch is (false, nil).
func (h *PasswordHasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	start := time.Now()
	defer h.track("verify", start)

	if strings.HasPrefix(encodedHash, argon2Prefix) {
		return verifyArgon2(password, encodedHash)
	}
	if _, err := bcrypt.Cost([]byte(encodedHash)); err != nil {
		return false, errUnknownHashFormat
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bcrypt: %w", err)
	}
	return true, nil
}

func (h *PasswordHasher) hashArgon2(password string) (string, error) {
	p := h.argon2
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2 salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2(password, encoded string) (bool, error) {
	// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, errUnknownHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errUnknownHashFormat
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return false, errUnknownHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errUnknownHashFormat
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, errUnknownHashFormat
	}

	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
