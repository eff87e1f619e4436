package lsp

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#semanticTokensLegend
type SemanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

type SemanticTokensOptions struct {
	Legend SemanticTokensLegend      `json:"legend"`
	Range  bool                      `json:"range"`
	Full   SemanticTokensFullOptions `json:"full"`
}

type SemanticTokensFullOptions struct {
	Delta bool `json:"delta"`
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_semanticTokens
type SemanticTokensRequest struct {
	Request
	Params SemanticTokensParams `json:"params"`
}

type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type SemanticTokens struct {
	ResultID string   `json:"resultId,omitempty"`
	Data     []uint32 `json:"data"`
}

type SemanticTokensResponse struct {
	Response
	Result *SemanticTokens `json:"result"`
}

func NewSemanticTokensResponse(id ID, resultID string, data []uint32) SemanticTokensResponse {
	if data == nil {
		data = []uint32{}
	}
	return SemanticTokensResponse{
		Response: Response{
			RPC: RPC_VERSION,
			ID:  &id,
		},
		Result: &SemanticTokens{
			ResultID: resultID,
			Data:     data,
		},
	}
}

type SemanticTokensDeltaRequest struct {
	Request
	Params SemanticTokensDeltaParams `json:"params"`
}

type SemanticTokensDeltaParams struct {
	TextDocument     TextDocumentIdentifier `json:"textDocument"`
	PreviousResultID string                 `json:"previousResultId"`
}

type SemanticTokensDelta struct {
	ResultID string               `json:"resultId,omitempty"`
	Edits    []SemanticTokensEdit `json:"edits"`
}

// Start and DeleteCount index the flat integer array of the previous result.
type SemanticTokensEdit struct {
	Start       uint32   `json:"start"`
	DeleteCount uint32   `json:"deleteCount"`
	Data        []uint32 `json:"data,omitempty"`
}

type SemanticTokensDeltaResponse struct {
	Response
	Result *SemanticTokensDelta `json:"result"`
}

func NewSemanticTokensDeltaResponse(id ID, resultID string, edits []SemanticTokensEdit) SemanticTokensDeltaResponse {
	if edits == nil {
		edits = []SemanticTokensEdit{}
	}
	return SemanticTokensDeltaResponse{
		Response: Response{
			RPC: RPC_VERSION,
			ID:  &id,
		},
		Result: &SemanticTokensDelta{
			ResultID: resultID,
			Edits:    edits,
		},
	}
}

type SemanticTokensRangeRequest struct {
	Request
	Params SemanticTokensRangeParams `json:"params"`
}

type SemanticTokensRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}
