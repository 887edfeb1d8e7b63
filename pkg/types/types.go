package types

import (
	"encoding/json"
	"fmt"

	"github.com/mvxkit/snapwallet/pkg/constants"
)

// Account is the session identity tracked by the wallet provider.
// It is empty until a successful login and is reset on logout.
type Account struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`

	// Signature is the auth-token signature returned when a token was
	// supplied at login time.
	Signature string `json:"signature,omitempty"`
}

// Transaction is the transport-neutral plain form of a MultiversX
// transaction. The provider does not interpret its contents; it only
// carries the struct across the snap RPC boundary and parses the signed
// result back into the same shape.
type Transaction struct {
	Nonce            uint64 `json:"nonce"`
	Value            string `json:"value"`
	Receiver         string `json:"receiver"`
	Sender           string `json:"sender"`
	SenderUsername   string `json:"senderUsername,omitempty"`
	ReceiverUsername string `json:"receiverUsername,omitempty"`
	GasPrice         uint64 `json:"gasPrice"`
	GasLimit         uint64 `json:"gasLimit"`

	// Data is the raw transaction payload; encoding/json carries it
	// base64-encoded, matching the network's wire form.
	Data []byte `json:"data,omitempty"`

	ChainID string `json:"chainID"`
	Version uint32 `json:"version"`
	Options uint32 `json:"options,omitempty"`

	Guardian          string `json:"guardian,omitempty"`
	Signature         string `json:"signature,omitempty"`
	GuardianSignature string `json:"guardianSignature,omitempty"`
}

// NewTransactionFromJSON parses one serialized transaction as returned by
// the snap's batch signing method.
func NewTransactionFromJSON(data []byte) (*Transaction, error) {
	tx := &Transaction{}
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, fmt.Errorf("failed to parse serialized transaction: %w", err)
	}
	return tx, nil
}

// Message is an arbitrary payload signed by the wallet. Address, Signer and
// Signature are filled in by the provider when the message comes back signed.
type Message struct {
	Data      []byte
	Address   string
	Signer    string
	Version   uint32
	Signature []byte
}

// NewMessage wraps a payload with the default message version.
func NewMessage(data []byte) *Message {
	return &Message{
		Data:    data,
		Version: constants.MessageDefaultVersion,
	}
}
