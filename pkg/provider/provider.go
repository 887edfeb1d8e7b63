// Package provider exposes the MultiversX snap hosted by a MetaMask-compatible
// extension as a small stateful wallet client: address retrieval, transaction
// and message signing, and auth-token signing, each forwarded as one snap RPC.
package provider

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mvxkit/snapwallet/pkg/constants"
	"github.com/mvxkit/snapwallet/pkg/extension"
	"github.com/mvxkit/snapwallet/pkg/types"
)

// Config configures a WalletProvider. The zero value is usable: the snap
// origin defaults to constants.DefaultSnapID and logging to slog.Default().
type Config struct {
	// SnapID is the snap origin passed through unchanged on every invoke.
	SnapID string

	// SnapVersion is an optional semver range requested during Init.
	SnapVersion string

	Logger *slog.Logger
}

// WalletProvider is a thin adapter over the wallet extension's snap RPC
// methods. Session state is one initialized flag plus the current account;
// Go's memory model requires the mutex, but no ordering guarantee beyond
// single-writer serialization is provided.
type WalletProvider struct {
	ext         extension.Extension
	snapID      string
	snapVersion string
	logger      *slog.Logger

	mu          sync.Mutex
	initialized bool
	account     types.Account
}

// NewWalletProvider creates a provider over the given extension.
func NewWalletProvider(ext extension.Extension, config *Config) *WalletProvider {
	if config == nil {
		config = &Config{}
	}
	snapID := config.SnapID
	if snapID == "" {
		snapID = constants.DefaultSnapID
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletProvider{
		ext:         ext,
		snapID:      snapID,
		snapVersion: config.SnapVersion,
		logger:      logger,
	}
}

// IsInstalled reports whether a compatible wallet extension is present.
func (p *WalletProvider) IsInstalled() bool {
	return p.ext.Installed()
}

// Init connects the snap and verifies it is installed. Failures are
// swallowed: the caller learns availability from the returned bool, never
// from an error. Calling Init when already initialized is a no-op.
func (p *WalletProvider) Init(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return true
	}
	if !p.ext.Installed() {
		p.logger.Debug("wallet extension not installed")
		return false
	}

	if err := p.connectSnap(ctx); err != nil {
		p.logger.Debug("snap connect failed", "snapId", p.snapID, "error", err)
		return false
	}
	snap, err := p.installedSnap(ctx)
	if err != nil {
		p.logger.Debug("snap lookup failed", "snapId", p.snapID, "error", err)
		return false
	}
	if snap == nil {
		p.logger.Debug("snap not reported as installed", "snapId", p.snapID)
		return false
	}

	p.initialized = true
	return true
}

// connectSnap asks the extension to install/connect the snap.
func (p *WalletProvider) connectSnap(ctx context.Context) error {
	_, err := p.ext.Request(ctx, extension.Request{
		Method: constants.MethodRequestSnaps,
		Params: map[string]extension.SnapVersionFilter{
			p.snapID: {Version: p.snapVersion},
		},
	})
	return err
}

// installedSnap queries the extension's installed snaps and returns the
// entry for the configured origin, or nil when absent.
func (p *WalletProvider) installedSnap(ctx context.Context) (*extension.Snap, error) {
	raw, err := p.ext.Request(ctx, extension.Request{Method: constants.MethodGetSnaps})
	if err != nil {
		return nil, err
	}
	var snaps map[string]extension.Snap
	if err := json.Unmarshal(raw, &snaps); err != nil {
		return nil, errors.Wrap(err, "failed to decode installed snaps")
	}
	snap, ok := snaps[p.snapID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

// IsInitialized reports whether the snap handshake has succeeded.
func (p *WalletProvider) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// IsConnected reports whether an account is logged in.
func (p *WalletProvider) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.account.Address != ""
}

// Account returns a copy of the current session account.
func (p *WalletProvider) Account() types.Account {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.account
}

// LoginOptions carries optional login inputs.
type LoginOptions struct {
	// Token is a native auth token to be signed by the snap alongside
	// address retrieval.
	Token string
}

// Login fetches the wallet address and, when a token is supplied, its
// auth-token signature. RPC rejections propagate unchanged.
func (p *WalletProvider) Login(ctx context.Context, opts LoginOptions) (types.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return types.Account{}, ErrNotInitialized
	}

	raw, err := p.invokeSnap(ctx, constants.SnapMethodGetAddress, nil)
	if err != nil {
		return types.Account{}, err
	}
	var address string
	if err := json.Unmarshal(raw, &address); err != nil {
		return types.Account{}, errors.Wrap(err, "failed to decode address")
	}
	p.account.Address = address

	if opts.Token != "" {
		raw, err := p.invokeSnap(ctx, constants.SnapMethodSignAuthToken, authTokenParams{Token: opts.Token})
		if err != nil {
			return types.Account{}, err
		}
		var signature string
		if err := json.Unmarshal(raw, &signature); err != nil {
			return types.Account{}, errors.Wrap(err, "failed to decode auth token signature")
		}
		p.account.Signature = signature
	}

	return p.account, nil
}

// Logout resets the session account. It returns true unconditionally once
// the provider is initialized.
func (p *WalletProvider) Logout() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return false, ErrNotInitialized
	}
	p.account = types.Account{}
	return true, nil
}

// GetAddress returns the current session address, possibly empty when no
// login has happened yet.
func (p *WalletProvider) GetAddress() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return "", ErrNotInitialized
	}
	return p.account.Address, nil
}

// SignTransaction signs a single transaction through the batch call.
func (p *WalletProvider) SignTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	signed, err := p.SignTransactions(ctx, []*types.Transaction{tx})
	if err != nil {
		return nil, err
	}
	if len(signed) != 1 {
		return nil, ErrCannotSignSingle
	}
	return signed[0], nil
}

// SignTransactions sends the whole batch in one snap RPC and parses each
// returned serialized transaction. Every failure, user rejection included,
// is normalized to *TransactionCancelledError.
func (p *WalletProvider) SignTransactions(ctx context.Context, txs []*types.Transaction) ([]*types.Transaction, error) {
	raw, err := p.invokeSnap(ctx, constants.SnapMethodSignTransactions, signTransactionsParams{Transactions: txs})
	if err != nil {
		return nil, &TransactionCancelledError{Err: err}
	}

	var serialized []string
	if err := json.Unmarshal(raw, &serialized); err != nil {
		return nil, &TransactionCancelledError{Err: err}
	}

	signed := make([]*types.Transaction, 0, len(serialized))
	for _, s := range serialized {
		tx, err := types.NewTransactionFromJSON([]byte(s))
		if err != nil {
			return nil, &TransactionCancelledError{Err: err}
		}
		signed = append(signed, tx)
	}
	return signed, nil
}

// SignMessage signs an arbitrary payload. The returned message carries the
// original data and version, the message's own address or the session
// address as fallback, the fixed signer tag, and the hex-decoded signature.
// Underlying errors propagate unchanged.
func (p *WalletProvider) SignMessage(ctx context.Context, msg *types.Message) (*types.Message, error) {
	p.mu.Lock()
	sessionAddress := p.account.Address
	p.mu.Unlock()

	if sessionAddress == "" || !p.ext.Installed() {
		return nil, ErrAccountNotConnected
	}

	raw, err := p.invokeSnap(ctx, constants.SnapMethodSignMessage, signMessageParams{Message: string(msg.Data)})
	if err != nil {
		return nil, err
	}
	var sigHex string
	if err := json.Unmarshal(raw, &sigHex); err != nil {
		return nil, errors.Wrap(err, "failed to decode message signature")
	}
	signature, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode message signature")
	}

	address := msg.Address
	if address == "" {
		address = sessionAddress
	}
	return &types.Message{
		Data:      msg.Data,
		Address:   address,
		Signer:    constants.MessageSigner,
		Version:   msg.Version,
		Signature: signature,
	}, nil
}

// CancelAction is kept for interface parity with other wallet providers.
// The snap exposes no cancellation surface, so it always reports false.
func (p *WalletProvider) CancelAction() bool {
	return false
}

type authTokenParams struct {
	Token string `json:"token"`
}

type signTransactionsParams struct {
	Transactions []*types.Transaction `json:"transactions"`
}

type signMessageParams struct {
	Message string `json:"message"`
}

// invokeSnap wraps one snap-level call in the wallet_invokeSnap envelope.
func (p *WalletProvider) invokeSnap(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return p.ext.Request(ctx, extension.Request{
		Method: constants.MethodInvokeSnap,
		Params: extension.InvokeSnapParams{
			SnapID: p.snapID,
			Request: extension.SnapRequest{
				Method: method,
				Params: params,
			},
		},
	})
}
