package lsp

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#shutdown
type ShutdownRequest struct {
	Request
}

type ShutdownResponse struct {
	Response
	Result *any `json:"result"`
}

func NewShutdownResponse(id ID) ShutdownResponse {
	return ShutdownResponse{
		Response: Response{
			RPC: RPC_VERSION,
			ID:  &id,
		},
		Result: nil,
	}
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#cancelRequest
type CancelRequestNotification struct {
	Notification
	Params CancelParams `json:"params"`
}

type CancelParams struct {
	ID ID `json:"id"`
}
