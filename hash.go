package stencil

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Hash32 maps a string to an 8-character lowercase hexadecimal value.
// It is the primitive behind key bit derivation and must be stable
// across processes for byte-identical input; swapping the primitive
// invalidates any previously exported state.
type Hash32 func(s string) string

// XXHash32 is the default Hash32: xxHash64 folded to 32 bits.
func XXHash32(s string) string {
	sum := xxhash.Sum64String(s)
	return fmt.Sprintf("%08x", uint32(sum)^uint32(sum>>32))
}

// DigestAlgo represents a supported compaction digest.
type DigestAlgo string

const (
	// DigestSHA256 uses SHA-256.
	DigestSHA256 DigestAlgo = "sha256"

	// DigestSHA512 uses SHA-512/256, the truncated SHA-512 variant.
	DigestSHA512 DigestAlgo = "sha512"

	// DigestBLAKE2b uses BLAKE2b-256.
	DigestBLAKE2b DigestAlgo = "blake2b"
)

// Digester compacts an identifier into a fixed-width digest.
// The result is a hex-encoded 64-character string.
type Digester interface {
	// Digest returns the hex-encoded digest of data.
	Digest(data []byte) (string, error)
}

// sha256Digester implements SHA-256 compaction.
type sha256Digester struct{}

// SHA256Digester returns a SHA-256 digester.
func SHA256Digester() Digester {
	return &sha256Digester{}
}

func (d *sha256Digester) Digest(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Digester implements SHA-512/256 compaction.
type sha512Digester struct{}

// SHA512Digester returns a SHA-512/256 digester. Same output width as
// SHA-256 with the SHA-512 compression function.
func SHA512Digester() Digester {
	return &sha512Digester{}
}

func (d *sha512Digester) Digest(data []byte) (string, error) {
	sum := sha512.Sum512_256(data)
	return hex.EncodeToString(sum[:]), nil
}

// blake2bDigester implements BLAKE2b-256 compaction.
type blake2bDigester struct{}

// BLAKE2bDigester returns a BLAKE2b-256 digester.
func BLAKE2bDigester() Digester {
	return &blake2bDigester{}
}

func (d *blake2bDigester) Digest(data []byte) (string, error) {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// validDigestAlgos contains all valid digest algorithms.
var validDigestAlgos = map[DigestAlgo]bool{
	DigestSHA256:  true,
	DigestSHA512:  true,
	DigestBLAKE2b: true,
}

// IsValidDigestAlgo returns true if the algorithm is a known digest algorithm.
func IsValidDigestAlgo(algo DigestAlgo) bool {
	return validDigestAlgos[algo]
}

// builtinDigesters returns the default digester registry.
func builtinDigesters() map[DigestAlgo]Digester {
	return map[DigestAlgo]Digester{
		DigestSHA256:  SHA256Digester(),
		DigestSHA512:  SHA512Digester(),
		DigestBLAKE2b: BLAKE2bDigester(),
	}
}

// DigesterFor returns the built-in digester for algo, or
// ErrMissingDigester for an unknown algorithm.
func DigesterFor(algo DigestAlgo) (Digester, error) {
	if !IsValidDigestAlgo(algo) {
		return nil, fmt.Errorf("%w: %q", ErrMissingDigester, algo)
	}
	return builtinDigesters()[algo], nil
}
