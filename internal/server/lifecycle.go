package server

import (
	"log/slog"

	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/lsp"
	"github.com/matkrin/shtokd/internal/semtok"
)

// Handler for `initialize`
func (s *Server) handleInitialize(request *lsp.InitializeRequest) {
	if s.state.Initialized() {
		s.writeResponse(lsp.NewErrorResponse(request.ID, lsp.CodeInvalidRequest, "server already initialized"))
		return
	}

	params := request.Params
	if params.ClientInfo != nil {
		slog.Info("Connected to client",
			"name", params.ClientInfo.Name,
			"version", params.ClientInfo.Version,
		)
	}

	var offered []string
	if params.Capabilities.General != nil {
		offered = params.Capabilities.General.PositionEncodings
	}
	encoding := document.NegotiateEncoding(offered, s.state.Config.Encoding())

	var clientTokens *lsp.SemanticTokensClientCapabilities
	if params.Capabilities.TextDocument != nil {
		clientTokens = params.Capabilities.TextDocument.SemanticTokens
	}
	caps := semtok.CapabilitiesFrom(clientTokens)
	caps.Delta = caps.Delta && s.state.Config.SemanticTokens.Delta

	legend := semtok.DefaultLegend()
	s.state.StartSession(encoding, legend, caps)
	s.tokenizer = s.newTokenizer(legend)
	slog.Info("Session started", "positionEncoding", encoding, "capabilities", caps)

	capabilities := lsp.ServerCapabilities{
		PositionEncoding: string(encoding),
		TextDocumentSync: lsp.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    lsp.TextDocumentSyncIncremental,
		},
		SemanticTokensProvider: &lsp.SemanticTokensOptions{
			Legend: legend.Wire(),
			Range:  true,
			Full: lsp.SemanticTokensFullOptions{
				Delta: s.state.Config.SemanticTokens.Delta,
			},
		},
	}
	info := lsp.ServerInfo{
		Name:    s.name,
		Version: s.version,
	}

	msg := lsp.NewInitializeResponse(request.ID, &capabilities, &info)
	s.writeResponse(msg)
}

// Handler for `shutdown`
func (s *Server) handleShutdown(request *lsp.ShutdownRequest) {
	slog.Info("Received shutdown request")
	s.state.ShutdownRequested = true
	s.cancelAll()
	s.state.Documents.CloseAll()

	s.writeResponse(lsp.NewShutdownResponse(request.ID))
}

// Handler for `exit`
func (s *Server) handleExit() {
	slog.Info("Exiting")
	if s.state.ShutdownRequested {
		s.exit(0)
	} else {
		slog.Warn("Exiting without preceding shutdown request")
		s.exit(1)
	}
}

func (s *Server) cancelAll() {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	for _, cancel := range s.inflight {
		cancel()
	}
}
