package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeServerLifeStolen, &ServerLifeStolen{
		VictimID:   "abc",
		VictimName: "Giulia",
	})
	require.NoError(t, err)

	b, err := SerializeMessage(msg)
	require.NoError(t, err)

	decoded, err := DeserializeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeServerLifeStolen, decoded.Type)

	payload := &ServerLifeStolen{}
	require.NoError(t, json.Unmarshal(decoded.Payload, payload))
	assert.Equal(t, "abc", payload.VictimID)
	assert.Equal(t, "Giulia", payload.VictimName)
}

func TestDeserializeMessage_NotCompressed(t *testing.T) {
	_, err := DeserializeMessage([]byte(`{"type":"create_room"}`))
	assert.Error(t, err)
}

func TestNewMessage_NilPayload(t *testing.T) {
	msg, err := NewMessage(MessageTypeServerYourRole, nil)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("null"), msg.Payload)
}
