package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const idLength = 16

// IDGenerator produces opaque identifiers. Collisions are not checked;
// uniqueness holds with overwhelming probability.
type IDGenerator func() string

// SessionID hashes the current timestamp together with a random nonce and
// truncates the hex digest.
func SessionID() IDGenerator {
	return func() string {
		seed := fmt.Sprintf("%d:%s", time.Now().UnixNano(), uuid.New())
		return Truncated(seed)
	}
}

func (g IDGenerator) Next() string {
	if g == nil {
		return ""
	}

	return g()
}

// Truncated returns the first 16 hex characters of the SHA-256 digest of seed.
// Calendar events derive their ids from this with a subject+start seed.
func Truncated(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:idLength]
}
