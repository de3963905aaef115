package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	token := &GameFinishToken{GameID: "b2c5f9be-9f5e-4e3f-9f6b-2a4c3e1d0a7f", Score: 551}
	raw, err := codec.Encode(token)
	require.NoError(t, err)

	decoded, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, token.GameID, decoded.GameID)
	assert.Equal(t, token.Score, decoded.Score)
}

func TestCodecRejectsTampering(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	raw, err := codec.Encode(&GameFinishToken{GameID: "g1", Score: 100})
	require.NoError(t, err)

	flipped := []byte(raw)
	if flipped[len(flipped)-5] == 'A' {
		flipped[len(flipped)-5] = 'B'
	} else {
		flipped[len(flipped)-5] = 'A'
	}

	_, err = codec.Decode(string(flipped))
	assert.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestCodecRejectsGarbage(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	_, err = codec.Decode("not base64!!!")
	assert.ErrorIs(t, err, ErrInvalidChecksum)

	_, err = codec.Decode("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrInvalidChecksum)
}

func TestCodecKeyMismatch(t *testing.T) {
	codecA, err := NewCodec("secret-a")
	require.NoError(t, err)
	codecB, err := NewCodec("secret-b")
	require.NoError(t, err)

	raw, err := codecA.Encode(&GameFinishToken{GameID: "g1", Score: 100})
	require.NoError(t, err)

	_, err = codecB.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidChecksum)
}
