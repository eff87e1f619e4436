package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/lsp"
	"github.com/matkrin/shtokd/internal/semtok"
)

// responseCode maps a request failure to its response error code and the
// level it is logged at. Expected races log at debug, client mistakes at
// warn, and anything pointing at a server bug at error.
func responseCode(err error) (int, slog.Level) {
	switch {
	case errors.Is(err, document.ErrStaleResult):
		return lsp.CodeContentModified, slog.LevelDebug
	case errors.Is(err, context.Canceled):
		return lsp.CodeRequestCancelled, slog.LevelDebug
	case errors.Is(err, context.DeadlineExceeded):
		return lsp.CodeServerCancelled, slog.LevelWarn
	case errors.Is(err, document.ErrNotOpen),
		errors.Is(err, document.ErrRangeOutOfBounds),
		errors.Is(err, semtok.ErrUnknownResultID):
		return lsp.CodeInvalidParams, slog.LevelWarn
	case errors.Is(err, semtok.ErrMalformedTokenPayload):
		return lsp.CodeInternalError, slog.LevelWarn
	default:
		return lsp.CodeInternalError, slog.LevelError
	}
}

// notificationLevel is the level a failed notification is logged at.
func notificationLevel(err error) slog.Level {
	switch {
	case errors.Is(err, document.ErrVersionConflict):
		return slog.LevelDebug
	case errors.Is(err, document.ErrAlreadyOpen),
		errors.Is(err, document.ErrNotOpen),
		errors.Is(err, document.ErrRangeOutOfBounds):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
