package sqs

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/google/uuid"
)

// IdentityFunc derives a batch-entry id from a message body.
type IdentityFunc func(body string) string

// SHA1Identity is the default identify and deduplicate function: the SHA-1
// digest of the body's UTF-8 bytes, hex-encoded to 40 characters. It is
// deterministic, so identical bodies always map to the same id.
func SHA1Identity(body string) string {
	digest := sha1.Sum([]byte(body))
	return hex.EncodeToString(digest[:])
}

// UUIDIdentity ignores the body and returns a random UUID. Use it as the
// Identify function when a batch may legitimately carry identical bodies
// that must keep distinct entry ids.
func UUIDIdentity(string) string {
	return uuid.NewString()
}
