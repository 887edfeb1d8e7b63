package constants

import "time"

const (
	BridgeRequestTimeout  = 30 * time.Second // timeout for one bridge round trip
	StatusProbeTimeout    = 5 * time.Second  // timeout for the extension presence probe
	TLSHandshakeTimeout   = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout = 20 * time.Second // timeout for response header
	ExpectContinueTimeout = 1 * time.Second  // timeout for expect continue
	MaxResponseBodySize   = 4 * 1024 * 1024  // maximum response body size in bytes (4MB)
)

// DefaultSnapID is the origin of the MultiversX snap inside MetaMask.
const DefaultSnapID = "npm:@multiversx/snap"

// DefaultBridgeURL is where the local extension bridge listens by default.
const DefaultBridgeURL = "http://localhost:8645"

// MetaMask wallet methods carrying the snap envelope.
const (
	MethodInvokeSnap   = "wallet_invokeSnap"
	MethodRequestSnaps = "wallet_requestSnaps"
	MethodGetSnaps     = "wallet_getSnaps"
)

// Methods exposed by the MultiversX snap.
const (
	SnapMethodGetAddress       = "mvx_getAddress"
	SnapMethodSignAuthToken    = "mvx_signAuthToken"
	SnapMethodSignTransactions = "mvx_signTransactions"
	SnapMethodSignMessage      = "mvx_signMessage"
)

const (
	// MessageSigner is the signer tag stamped on every message signed
	// through the snap.
	MessageSigner = "snap"

	// MessageDefaultVersion is the message version used when the caller
	// does not set one.
	MessageDefaultVersion = 1
)

// CodeUserRejected is the EIP-1193 error code the extension returns when the
// user dismisses a request in the wallet UI.
const CodeUserRejected = 4001
