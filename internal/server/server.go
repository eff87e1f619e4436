package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/matkrin/shtokd/internal/ast"
	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/lsp"
	"github.com/matkrin/shtokd/internal/semtok"
	"golang.org/x/sync/semaphore"
)

// streamTokenizer turns the text of a PositionIndex into a token stream.
type streamTokenizer interface {
	Tokenize(ctx context.Context, name string, index *document.PositionIndex) (semtok.Stream, error)
}

type queuedMessage struct {
	method   string
	contents []byte
}

type Server struct {
	name         string
	version      string
	state        State
	writer       io.Writer
	messageQueue chan queuedMessage
	wg           sync.WaitGroup
	mu           sync.Mutex

	newTokenizer func(legend semtok.Legend) streamTokenizer
	tokenizer    streamTokenizer
	tokenSlots   *semaphore.Weighted
	requests     sync.WaitGroup
	inflightMu   sync.Mutex
	inflight     map[lsp.ID]context.CancelFunc

	exit func(code int)
}

type ServerOption func(*Server)

// WithExitFunc replaces os.Exit as the handler for the `exit` notification.
func WithExitFunc(fn func(code int)) ServerOption {
	return func(s *Server) {
		s.exit = fn
	}
}

// withTokenizer replaces the shell tokenizer created in `initialize`.
func withTokenizer(fn func(legend semtok.Legend) streamTokenizer) ServerOption {
	return func(s *Server) {
		s.newTokenizer = fn
	}
}

func NewServer(name, version string, state State, writer io.Writer, opts ...ServerOption) *Server {
	s := &Server{
		name:         name,
		version:      version,
		state:        state,
		writer:       writer,
		messageQueue: make(chan queuedMessage),
		tokenSlots:   semaphore.NewWeighted(int64(state.Config.SemanticTokens.MaxConcurrent)),
		inflight:     make(map[lsp.ID]context.CancelFunc),
		exit:         os.Exit,
		newTokenizer: func(legend semtok.Legend) streamTokenizer {
			return ast.NewTokenizer(legend)
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Server) run() {
	defer s.wg.Done()
	for msg := range s.messageQueue {
		s.dispatchMessage(msg.method, msg.contents)
	}
}

func (s *Server) HandleMessage(method string, contents []byte) {
	s.messageQueue <- queuedMessage{method: method, contents: contents}
}

// Stop drains the message queue and waits for in-flight token requests.
func (s *Server) Stop() {
	close(s.messageQueue)
	s.wg.Wait()
	s.requests.Wait()
}

// Notifications are applied here, on the dispatcher goroutine, so edits to
// a document are applied in the order the client sent them. Token requests
// are answered from their own goroutines.
func (s *Server) dispatchMessage(method string, contents []byte) {
	slog.Info("Received message", "method", method)

	var base lsp.BaseMessage
	if err := json.Unmarshal(contents, &base); err != nil {
		slog.Error("Could not parse message", "method", method, "err", err)
		s.writeResponse(lsp.NewParseErrorResponse(err.Error()))
		return
	}

	switch {
	case method == "exit":
		s.handleExit()
		return
	case method == "initialize":
	case !s.state.Initialized():
		if base.ID != nil {
			s.writeResponse(lsp.NewErrorResponse(*base.ID, lsp.CodeServerNotInitialized, "server not initialized"))
		}
		return
	case s.state.ShutdownRequested:
		if base.ID != nil {
			s.writeResponse(lsp.NewErrorResponse(*base.ID, lsp.CodeInvalidRequest, "server is shutting down"))
		}
		return
	}

	switch method {
	case "initialize":
		var request lsp.InitializeRequest
		if !s.parseRequest(method, contents, base.ID, &request) {
			return
		}
		s.handleInitialize(&request)

	case "initialized":
		slog.Info("Client initialized")

	case "shutdown":
		var request lsp.ShutdownRequest
		if !s.parseRequest(method, contents, base.ID, &request) {
			return
		}
		s.handleShutdown(&request)

	case "$/cancelRequest":
		var notification lsp.CancelRequestNotification
		if !s.parseRequest(method, contents, nil, &notification) {
			return
		}
		s.cancelRequest(notification.Params.ID)

	case "textDocument/didOpen":
		var notification lsp.DidOpenTextDocumentNotification
		if !s.parseRequest(method, contents, nil, &notification) {
			return
		}
		s.handleDidOpen(&notification)

	case "textDocument/didChange":
		var notification lsp.DidChangeTextDocumentNotification
		if !s.parseRequest(method, contents, nil, &notification) {
			return
		}
		s.handleDidChange(&notification)

	case "textDocument/didClose":
		var notification lsp.DidCloseTextDocumentNotification
		if !s.parseRequest(method, contents, nil, &notification) {
			return
		}
		s.handleDidClose(&notification)

	case "textDocument/semanticTokens/full":
		var request lsp.SemanticTokensRequest
		if !s.parseRequest(method, contents, base.ID, &request) {
			return
		}
		s.goRequest(request.ID, method, func(ctx context.Context) (any, error) {
			return s.semanticTokensFull(ctx, request.ID, request.Params.TextDocument.URI)
		})

	case "textDocument/semanticTokens/full/delta":
		var request lsp.SemanticTokensDeltaRequest
		if !s.parseRequest(method, contents, base.ID, &request) {
			return
		}
		s.goRequest(request.ID, method, func(ctx context.Context) (any, error) {
			return s.semanticTokensDelta(ctx, &request)
		})

	case "textDocument/semanticTokens/range":
		var request lsp.SemanticTokensRangeRequest
		if !s.parseRequest(method, contents, base.ID, &request) {
			return
		}
		s.goRequest(request.ID, method, func(ctx context.Context) (any, error) {
			return s.semanticTokensRange(ctx, &request)
		})

	default:
		if base.ID != nil {
			s.writeResponse(lsp.NewErrorResponse(*base.ID, lsp.CodeMethodNotFound, "method not found: "+method))
			return
		}
		if !strings.HasPrefix(method, "$/") {
			slog.Debug("Ignoring notification", "method", method)
		}
	}
}

// parseRequest decodes contents into v. Undecodable requests are answered
// with InvalidParams; undecodable notifications are only logged.
func (s *Server) parseRequest(method string, contents []byte, id *lsp.ID, v any) bool {
	if err := json.Unmarshal(contents, v); err != nil {
		slog.Error("Could not parse request", "method", method, "err", err)
		if id != nil {
			s.writeResponse(lsp.NewErrorResponse(*id, lsp.CodeInvalidParams, err.Error()))
		}
		return false
	}
	return true
}

// goRequest answers a request on its own goroutine. The request can be
// cancelled with `$/cancelRequest` until it has been answered. An id that
// is still in flight is rejected, so a cancellation always reaches the
// request it names.
func (s *Server) goRequest(id lsp.ID, method string, handle func(ctx context.Context) (any, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.state.Config.SemanticTokens.Timeout)

	s.inflightMu.Lock()
	if _, busy := s.inflight[id]; busy {
		s.inflightMu.Unlock()
		cancel()
		slog.Warn("Request id already in flight", "method", method, "id", id)
		s.writeResponse(lsp.NewErrorResponse(id, lsp.CodeInvalidRequest, "request id "+id.String()+" is already in flight"))
		return
	}
	s.inflight[id] = cancel
	s.inflightMu.Unlock()

	s.requests.Add(1)
	go func() {
		defer s.requests.Done()

		response, err := s.runRequest(ctx, handle)
		// Released before answering, so the client may reuse the id as
		// soon as it has the response.
		s.finishRequest(id)
		if err != nil {
			s.writeError(id, method, err)
			return
		}
		s.writeResponse(response)
	}()
}

func (s *Server) runRequest(ctx context.Context, handle func(ctx context.Context) (any, error)) (any, error) {
	if err := s.tokenSlots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.tokenSlots.Release(1)
	return handle(ctx)
}

func (s *Server) finishRequest(id lsp.ID) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if cancel, ok := s.inflight[id]; ok {
		cancel()
		delete(s.inflight, id)
	}
}

func (s *Server) cancelRequest(id lsp.ID) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if cancel, ok := s.inflight[id]; ok {
		slog.Debug("Cancelling request", "id", id)
		cancel()
	}
}

func (s *Server) writeError(id lsp.ID, method string, err error) {
	code, level := responseCode(err)
	slog.Log(context.Background(), level, "Request failed", "method", method, "id", id, "err", err)
	s.writeResponse(lsp.NewErrorResponse(id, code, err.Error()))
}

func (s *Server) writeResponse(msg any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := lsp.EncodeMessage(msg)
	if _, err := s.writer.Write([]byte(reply)); err != nil {
		slog.Error("Could not write response", "err", err)
	}
}
