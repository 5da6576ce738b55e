package mcp

import (
	"fmt"
	"net/http"
)

// FormatMCPError formats various error types into MCP-compatible JSON-RPC errors
func FormatMCPError(err error) *RPCError {
	// Check if already an RPC error
	if rpcErr, ok := err.(*RPCError); ok {
		return rpcErr
	}

	// Check for validation errors
	if ve, ok := err.(*ValidationError); ok {
		return &RPCError{
			Code:    ValidationFailed,
			Message: "Parameter validation failed",
			Data: map[string]interface{}{
				"parameter": ve.Param,
				"message":   ve.Message,
			},
		}
	}

	// Check for safety filter rejections
	if ue, ok := err.(*UnsafeQueryError); ok {
		data := map[string]interface{}{"reason": ue.Reason}
		if ue.Keyword != "" {
			data["keyword"] = ue.Keyword
		}
		return &RPCError{
			Code:    UnsafeQuery,
			Message: ue.Reason,
			Data:    data,
		}
	}

	// Generic error
	return &RPCError{
		Code:    InternalError,
		Message: fmt.Sprintf("Internal error: %s", err.Error()),
	}
}

// StoreError wraps a store failure into the RPC error naming the tool and
// the underlying message. Never fatal: the dispatcher stays ready for the
// next call.
func StoreError(tool string, err error) *RPCError {
	return &RPCError{
		Code:    StoreFailure,
		Message: fmt.Sprintf("error executing %s: %s", tool, err.Error()),
		Data:    tool,
	}
}

// HTTPStatusFromError maps MCP error codes to HTTP status codes
func HTTPStatusFromError(rpcErr *RPCError) int {
	if rpcErr == nil {
		return http.StatusOK
	}

	switch rpcErr.Code {
	case ParseError, InvalidRequest:
		return http.StatusBadRequest
	case MethodNotFound:
		return http.StatusNotFound
	case InvalidParams, ValidationFailed, UnsafeQuery:
		return http.StatusBadRequest
	case TimeoutExceeded:
		return http.StatusGatewayTimeout
	case StoreFailure, InternalError, ServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
