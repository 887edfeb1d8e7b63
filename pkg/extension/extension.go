// Package extension abstracts the MetaMask-compatible wallet extension the
// provider talks to. The browser exposes the extension as an ambient global;
// here it is an injected capability so the provider stays testable without a
// host environment.
package extension

import (
	"context"
	"encoding/json"
)

// Request is the EIP-1193 style request forwarded to the wallet extension.
type Request struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Extension is the wallet extension surface the provider depends on.
// Implementations decide how the extension is reached (local bridge,
// in-process stub, ...).
type Extension interface {
	// Installed reports whether a compatible extension is reachable and
	// identifies itself as MetaMask.
	Installed() bool

	// Request performs one wallet RPC round trip and returns the raw
	// result. The extension owns resolution and rejection; no timeout is
	// enforced here beyond the transport's own.
	Request(ctx context.Context, req Request) (json.RawMessage, error)
}

// SnapRequest is the snap-level call wrapped inside wallet_invokeSnap.
type SnapRequest struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// InvokeSnapParams is the wallet_invokeSnap envelope defined by MetaMask.
type InvokeSnapParams struct {
	SnapID  string      `json:"snapId"`
	Request SnapRequest `json:"request"`
}

// SnapVersionFilter selects the snap version requested via
// wallet_requestSnaps. An empty version means "any".
type SnapVersionFilter struct {
	Version string `json:"version,omitempty"`
}

// Snap describes an installed snap as reported by wallet_getSnaps.
type Snap struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Enabled bool   `json:"enabled"`
	Blocked bool   `json:"blocked"`
}
