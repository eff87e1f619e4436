package server

import (
	"context"
	"log/slog"

	"github.com/matkrin/shtokd/internal/lsp"
)

// Handler for `textDocument/didOpen`
func (s *Server) handleDidOpen(notification *lsp.DidOpenTextDocumentNotification) {
	item := notification.Params.TextDocument
	if _, err := s.state.Documents.Open(item.URI, item.Text, item.Version); err != nil {
		s.logNotificationError("textDocument/didOpen", item.URI, err)
		return
	}
	slog.Info("Opened document", "URI", item.URI, "version", item.Version)
}

// Handler for `textDocument/didChange`
func (s *Server) handleDidChange(notification *lsp.DidChangeTextDocumentNotification) {
	params := notification.Params
	uri := params.TextDocument.URI
	if err := s.state.Documents.Change(uri, params.ContentChanges, params.TextDocument.Version); err != nil {
		s.logNotificationError("textDocument/didChange", uri, err)
		return
	}
	slog.Debug("Changed document", "URI", uri, "version", params.TextDocument.Version, "changes", len(params.ContentChanges))
}

// Handler for `textDocument/didClose`
func (s *Server) handleDidClose(notification *lsp.DidCloseTextDocumentNotification) {
	uri := notification.Params.TextDocument.URI
	if err := s.state.Documents.Close(uri); err != nil {
		s.logNotificationError("textDocument/didClose", uri, err)
		return
	}
	slog.Info("Closed document", "URI", uri)
}

func (s *Server) logNotificationError(method, uri string, err error) {
	slog.Log(context.Background(), notificationLevel(err), "Notification failed", "method", method, "URI", uri, "err", err)
}
