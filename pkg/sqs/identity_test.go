package sqs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSHA1IdentityDeterministic(t *testing.T) {
	first := SHA1Identity("hello")
	second := SHA1Identity("hello")

	require.Equal(t, first, second)
	require.Len(t, first, 40)
	require.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", first)
}

func TestSHA1IdentityDistinguishesBodies(t *testing.T) {
	require.NotEqual(t, SHA1Identity("hello"), SHA1Identity("hello "))
	require.Len(t, SHA1Identity(""), 40)
}

func TestUUIDIdentityUniquePerCall(t *testing.T) {
	first := UUIDIdentity("same body")
	second := UUIDIdentity("same body")

	require.NotEqual(t, first, second)
	_, err := uuid.Parse(first)
	require.NoError(t, err)
}
