package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvxkit/snapwallet/pkg/constants"
	"github.com/mvxkit/snapwallet/pkg/types"
)

func TestTransactionPlainForm(t *testing.T) {
	tx := &types.Transaction{
		Nonce:    42,
		Value:    "5000000000000000000",
		Receiver: "erd1receiver",
		Sender:   "erd1sender",
		GasPrice: 1000000000,
		GasLimit: 70000,
		Data:     []byte("transfer@01"),
		ChainID:  "1",
		Version:  1,
	}

	raw, err := json.Marshal(tx)
	require.NoError(t, err)

	// Data travels base64-encoded; unset optionals stay off the wire.
	var plain map[string]any
	require.NoError(t, json.Unmarshal(raw, &plain))
	assert.Equal(t, "dHJhbnNmZXJAMDE=", plain["data"])
	assert.NotContains(t, plain, "signature")
	assert.NotContains(t, plain, "guardian")
	assert.NotContains(t, plain, "options")

	parsed, err := types.NewTransactionFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, parsed)
}

func TestNewTransactionFromJSON_Malformed(t *testing.T) {
	_, err := types.NewTransactionFromJSON([]byte("{not a transaction"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse serialized transaction")
}

func TestNewMessage(t *testing.T) {
	msg := types.NewMessage([]byte("payload"))
	assert.Equal(t, []byte("payload"), msg.Data)
	assert.Equal(t, uint32(constants.MessageDefaultVersion), msg.Version)
	assert.Empty(t, msg.Address)
	assert.Empty(t, msg.Signer)
	assert.Nil(t, msg.Signature)
}
