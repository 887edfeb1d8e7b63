// Package bridgetest provides an in-process wallet bridge for exercising the
// provider against a scripted MetaMask extension: a status endpoint carrying
// the presence marker and a JSON-RPC endpoint implementing the snap
// handshake plus configurable snap method handlers.
package bridgetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"

	"github.com/mvxkit/snapwallet/pkg/constants"
	"github.com/mvxkit/snapwallet/pkg/extension"
)

// SnapHandler answers one snap method invocation. Returning an *RPCError
// surfaces it verbatim; any other error becomes an internal JSON-RPC error.
type SnapHandler func(params json.RawMessage) (any, error)

// Server is a scripted wallet bridge backed by httptest.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	isMetaMask   bool
	snapsErr     *extension.RPCError
	snaps        map[string]extension.Snap
	snapHandlers map[string]SnapHandler
}

// NewServer starts a bridge whose extension identifies as MetaMask and has
// no snaps installed yet. Callers own Close().
func NewServer() *Server {
	s := &Server{
		isMetaMask:   true,
		snaps:        make(map[string]extension.Snap),
		snapHandlers: make(map[string]SnapHandler),
	}

	router := mux.NewRouter()
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/rpc", s.handleRPC).Methods(http.MethodPost)
	s.Server = httptest.NewServer(router)
	return s
}

// SetInstalled controls the isMetaMask presence marker.
func (s *Server) SetInstalled(installed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isMetaMask = installed
}

// FailSnapRequests makes the snap handshake methods reject with the given
// error until called again with nil.
func (s *Server) FailSnapRequests(err *extension.RPCError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapsErr = err
}

// HandleSnap registers the handler answering one snap method.
func (s *Server) HandleSnap(method string, handler SnapHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapHandlers[method] = handler
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	installed := s.isMetaMask
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isMetaMask": installed})
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      string              `json:"id"`
	Result  any                 `json:"result,omitempty"`
	Error   *extension.RPCError `json:"error,omitempty"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, rpcErr := s.dispatch(&req)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   rpcErr,
	})
}

func (s *Server) dispatch(req *rpcRequest) (any, *extension.RPCError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Method {
	case constants.MethodRequestSnaps:
		if s.snapsErr != nil {
			return nil, s.snapsErr
		}
		var filters map[string]extension.SnapVersionFilter
		if err := json.Unmarshal(req.Params, &filters); err != nil {
			return nil, &extension.RPCError{Code: -32602, Message: err.Error()}
		}
		for id, filter := range filters {
			version := filter.Version
			if version == "" {
				version = "1.0.0"
			}
			s.snaps[id] = extension.Snap{ID: id, Version: version, Enabled: true}
		}
		return s.snaps, nil

	case constants.MethodGetSnaps:
		if s.snapsErr != nil {
			return nil, s.snapsErr
		}
		return s.snaps, nil

	case constants.MethodInvokeSnap:
		var params struct {
			SnapID  string `json:"snapId"`
			Request struct {
				Method string          `json:"method"`
				Params json.RawMessage `json:"params"`
			} `json:"request"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &extension.RPCError{Code: -32602, Message: err.Error()}
		}

		if _, ok := s.snaps[params.SnapID]; !ok {
			return nil, &extension.RPCError{Code: -32603, Message: "snap not installed: " + params.SnapID}
		}
		handler, ok := s.snapHandlers[params.Request.Method]
		if !ok {
			return nil, &extension.RPCError{Code: -32601, Message: "unknown snap method: " + params.Request.Method}
		}

		result, err := handler(params.Request.Params)
		if err != nil {
			if rpcErr, ok := err.(*extension.RPCError); ok {
				return nil, rpcErr
			}
			return nil, &extension.RPCError{Code: -32603, Message: err.Error()}
		}
		return result, nil

	default:
		return nil, &extension.RPCError{Code: -32601, Message: "unknown method: " + req.Method}
	}
}
