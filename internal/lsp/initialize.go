package lsp

import "encoding/json"

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#initialize
type InitializeRequest struct {
	Request
	Params InitializeRequestParams `json:"params"`
}

type InitializeRequestParams struct {
	ProcessID             *int               `json:"processId"`
	ClientInfo            *ClientInfo        `json:"clientInfo"`
	Locale                string             `json:"locale"`
	RootURI               *string            `json:"rootUri"`
	Trace                 *string            `json:"trace"`
	WorkspaceFolders      []WorkspaceFolder  `json:"workspaceFolders"`
	InitializationOptions *any               `json:"initializationOptions"`
	Capabilities          ClientCapabilities `json:"capabilities"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type ClientCapabilities struct {
	General      *GeneralClientCapabilities      `json:"general"`
	TextDocument *TextDocumentClientCapabilities `json:"textDocument"`
}

type GeneralClientCapabilities struct {
	// Values are "utf-8", "utf-16" or "utf-32", in client preference order.
	PositionEncodings []string `json:"positionEncodings"`
}

type TextDocumentClientCapabilities struct {
	SemanticTokens *SemanticTokensClientCapabilities `json:"semanticTokens"`
}

type SemanticTokensClientCapabilities struct {
	Requests                SemanticTokensClientRequests `json:"requests"`
	TokenTypes              []string                     `json:"tokenTypes"`
	TokenModifiers          []string                     `json:"tokenModifiers"`
	Formats                 []string                     `json:"formats"`
	OverlappingTokenSupport bool                         `json:"overlappingTokenSupport"`
	MultilineTokenSupport   bool                         `json:"multilineTokenSupport"`
}

type SemanticTokensClientRequests struct {
	Range bool                       `json:"range"`
	Full  SemanticTokensFullRequests `json:"full"`
}

// SemanticTokensFullRequests decodes `boolean | { delta?: boolean }`.
type SemanticTokensFullRequests struct {
	Supported bool
	Delta     bool
}

func (f *SemanticTokensFullRequests) UnmarshalJSON(data []byte) error {
	var supported bool
	if err := json.Unmarshal(data, &supported); err == nil {
		f.Supported = supported
		f.Delta = false
		return nil
	}

	var options struct {
		Delta bool `json:"delta"`
	}
	if err := json.Unmarshal(data, &options); err != nil {
		return err
	}
	f.Supported = true
	f.Delta = options.Delta
	return nil
}

type InitializeResponse struct {
	Response
	Result InitializeResult `json:"result"`
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#initializeResult
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ServerCapabilities struct {
	PositionEncoding       string                  `json:"positionEncoding"`
	TextDocumentSync       TextDocumentSyncOptions `json:"textDocumentSync"`
	SemanticTokensProvider *SemanticTokensOptions  `json:"semanticTokensProvider,omitempty"`
}

func NewInitializeResponse(id ID, capabilities *ServerCapabilities, info *ServerInfo) InitializeResponse {
	return InitializeResponse{
		Response: Response{
			RPC: RPC_VERSION,
			ID:  &id,
		},
		Result: InitializeResult{
			Capabilities: *capabilities,
			ServerInfo:   *info,
		},
	}
}
