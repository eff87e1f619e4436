package lsp

import "fmt"

// JSON-RPC and LSP error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	CodeServerNotInitialized = -32002
	CodeUnknownErrorCode     = -32001
	CodeRequestFailed        = -32803
	CodeServerCancelled      = -32802
	CodeContentModified      = -32801
	CodeRequestCancelled     = -32800
)

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#responseError
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type ErrorResponse struct {
	Response
	Error ResponseError `json:"error"`
}

func NewErrorResponse(id ID, code int, message string) ErrorResponse {
	return ErrorResponse{
		Response: Response{
			RPC: RPC_VERSION,
			ID:  &id,
		},
		Error: ResponseError{
			Code:    code,
			Message: message,
		},
	}
}

// NewParseErrorResponse answers a message whose id could not be read.
func NewParseErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Response: Response{RPC: RPC_VERSION},
		Error: ResponseError{
			Code:    CodeParseError,
			Message: message,
		},
	}
}
