package extension

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mvxkit/snapwallet/pkg/constants"
)

// RPCError is an EIP-1193 provider error returned by the extension.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}

// IsUserRejection reports whether err is the extension's
// user-rejected-request error. Diagnostic only: the provider does not
// distinguish rejection from any other signing failure.
func IsUserRejection(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == constants.CodeUserRejected
}
