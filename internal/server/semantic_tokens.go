package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/lsp"
	"github.com/matkrin/shtokd/internal/semtok"
	"github.com/matkrin/shtokd/internal/utils"
)

// Handler for `textDocument/semanticTokens/full`
//
// A result already cached for the current version is reused, but always
// under a fresh resultId.
func (s *Server) semanticTokensFull(ctx context.Context, id lsp.ID, uri string) (any, error) {
	resultID, data, err := s.computeTokens(ctx, uri)
	if err != nil {
		return nil, err
	}
	return lsp.NewSemanticTokensResponse(id, resultID, data), nil
}

// Handler for `textDocument/semanticTokens/full/delta`
func (s *Server) semanticTokensDelta(ctx context.Context, request *lsp.SemanticTokensDeltaRequest) (any, error) {
	uri := request.Params.TextDocument.URI

	if !s.state.Session.Capabilities.Delta {
		slog.Debug("Delta not negotiated, answering with full result", "URI", uri)
		return s.semanticTokensFull(ctx, request.ID, uri)
	}

	previous, err := s.state.Results.Lookup(uri, request.Params.PreviousResultID)
	if err != nil {
		if errors.Is(err, semtok.ErrUnknownResultID) && s.state.Config.SemanticTokens.FullOnUnknownResult {
			slog.Debug("Unknown previous result, answering with full result", "URI", uri, "previousResultId", request.Params.PreviousResultID)
			return s.semanticTokensFull(ctx, request.ID, uri)
		}
		return nil, err
	}

	resultID, data, err := s.computeTokens(ctx, uri)
	if err != nil {
		return nil, err
	}

	edits, err := semtok.ComputeDelta(previous.Data, data)
	if err != nil {
		return nil, err
	}
	wire := make([]lsp.SemanticTokensEdit, 0, len(edits))
	for _, edit := range edits {
		wire = append(wire, edit.Wire())
	}
	return lsp.NewSemanticTokensDeltaResponse(request.ID, resultID, wire), nil
}

// Handler for `textDocument/semanticTokens/range`
func (s *Server) semanticTokensRange(ctx context.Context, request *lsp.SemanticTokensRangeRequest) (any, error) {
	uri := request.Params.TextDocument.URI
	buffer, err := s.state.Documents.Get(uri)
	if err != nil {
		return nil, err
	}
	snapshot, err := buffer.Snapshot()
	if err != nil {
		return nil, err
	}
	if _, _, err := snapshot.Index.Span(request.Params.Range); err != nil {
		return nil, err
	}

	stream, err := s.tokenize(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	var data []uint32
	err = buffer.Guard(snapshot.Version, func(document.Snapshot) error {
		data, err = s.state.Session.Encoder.Encode(stream.Within(request.Params.Range))
		return err
	})
	if err != nil {
		return nil, err
	}
	return lsp.NewSemanticTokensResponse(request.ID, "", data), nil
}

// computeTokens tokenizes the current text of uri without holding the
// buffer lock, then encodes and caches the result only if the buffer is
// still at the tokenized version. Otherwise it fails with ErrStaleResult.
func (s *Server) computeTokens(ctx context.Context, uri string) (string, []uint32, error) {
	buffer, err := s.state.Documents.Get(uri)
	if err != nil {
		return "", nil, err
	}
	snapshot, err := buffer.Snapshot()
	if err != nil {
		return "", nil, err
	}

	var stream semtok.Stream
	cached, reuse := s.state.Results.Current(uri, snapshot.Version)
	if reuse {
		stream = cached.Stream
	} else {
		stream, err = s.tokenize(ctx, snapshot)
		if err != nil {
			return "", nil, err
		}
	}

	var resultID string
	var data []uint32
	err = buffer.Guard(snapshot.Version, func(document.Snapshot) error {
		if reuse {
			data = cached.Data
		} else {
			encoded, err := s.state.Session.Encoder.Encode(stream)
			if err != nil {
				return err
			}
			data = encoded
		}
		resultID = s.state.Results.Record(uri, snapshot.Version, stream, data)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return resultID, data, nil
}

func (s *Server) tokenize(ctx context.Context, snapshot document.Snapshot) (semtok.Stream, error) {
	name, err := utils.URIToPath(snapshot.URI)
	if err != nil {
		name = snapshot.URI
	}
	return s.tokenizer.Tokenize(ctx, name, snapshot.Index)
}
