package ticket

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
    s := NewSigner("test-secret")
    payload := s.Payload(42)

    assert.True(t, strings.HasPrefix(payload, "CTB1.42."))

    id, err := s.Verify(payload)
    require.NoError(t, err)
    assert.Equal(t, uint64(42), id)
}

func TestPayloadDeterministic(t *testing.T) {
    s := NewSigner("test-secret")
    assert.Equal(t, s.Payload(7), s.Payload(7))
    assert.NotEqual(t, s.Payload(7), s.Payload(8))
}

func TestVerifyRejectsTampering(t *testing.T) {
    s := NewSigner("test-secret")
    payload := s.Payload(42)

    // Swap the booking ID while keeping the signature.
    tampered := strings.Replace(payload, ".42.", ".43.", 1)
    _, err := s.Verify(tampered)
    assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
    issued := NewSigner("secret-a").Payload(5)
    _, err := NewSigner("secret-b").Verify(issued)
    assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestVerifyRejectsMalformed(t *testing.T) {
    s := NewSigner("test-secret")
    for _, payload := range []string{
        "",
        "CTB1",
        "CTB1.42",
        "XYZ9.42.deadbeef",
        "CTB1.0." + s.Payload(1)[len("CTB1.1."):],
        "CTB1.notanumber.deadbeef",
    } {
        _, err := s.Verify(payload)
        assert.ErrorIs(t, err, ErrInvalidPayload, "payload %q", payload)
    }
}

func TestPNG(t *testing.T) {
    s := NewSigner("test-secret")
    png, err := PNG(s.Payload(42), 256)
    require.NoError(t, err)
    assert.NotEmpty(t, png)
    // PNG magic bytes
    assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
