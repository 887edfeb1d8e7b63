package extension

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mvxkit/snapwallet/pkg/constants"
)

// BridgeClient reaches a MetaMask-compatible extension through a local HTTP
// bridge. The bridge exposes the extension's request method as JSON-RPC 2.0
// on POST /rpc and the presence marker on GET /status.
type BridgeClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// The presence probe runs once; a bridge does not gain or lose its
	// extension within a client's lifetime.
	probeOnce sync.Once
	installed bool
}

var _ Extension = (*BridgeClient)(nil)

// NewBridgeClient creates a bridge client for the given base URL. A nil
// logger falls back to slog.Default().
func NewBridgeClient(baseURL string, logger *slog.Logger) *BridgeClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &BridgeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClientWithTimeouts(),
		logger:     logger,
	}
}

func newHTTPClientWithTimeouts() *http.Client {
	return &http.Client{
		Timeout: constants.BridgeRequestTimeout,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   constants.TLSHandshakeTimeout,
			ResponseHeaderTimeout: constants.ResponseHeaderTimeout,
			ExpectContinueTimeout: constants.ExpectContinueTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // the bridge never redirects
		},
	}
}

type statusResponse struct {
	IsMetaMask bool `json:"isMetaMask"`
}

// Installed probes the bridge's status endpoint and reports whether the
// extension behind it identifies itself as MetaMask. Any probe failure
// reads as "not installed".
func (c *BridgeClient) Installed() bool {
	c.probeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.StatusProbeTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
		if err != nil {
			return
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("bridge status probe failed", "url", c.baseURL, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.logger.Debug("bridge status probe rejected", "url", c.baseURL, "status", resp.StatusCode)
			return
		}

		var status statusResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, constants.MaxResponseBodySize)).Decode(&status); err != nil {
			c.logger.Debug("bridge status probe undecodable", "url", c.baseURL, "error", err)
			return
		}
		c.installed = status.IsMetaMask
	})
	return c.installed
}

type jsonrpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Request forwards one wallet request to the bridge and returns the raw
// JSON-RPC result. Extension-side rejections come back as *RPCError.
func (c *BridgeClient) Request(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := json.Marshal(jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  req.Method,
		Params:  req.Params,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s request", req.Method)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s request", req.Method)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s request", req.Method)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, constants.MaxResponseBodySize)

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(limited)
		return nil, errors.Errorf("%s request failed with status %d: %s", req.Method, resp.StatusCode, string(b))
	}

	var rpcResp jsonrpcResponse
	if err := json.NewDecoder(limited).Decode(&rpcResp); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s response", req.Method)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}
