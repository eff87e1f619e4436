package server

import (
	"github.com/matkrin/shtokd/internal/config"
	"github.com/matkrin/shtokd/internal/document"
	"github.com/matkrin/shtokd/internal/semtok"
)

// Session holds what was negotiated in `initialize`. It does not change
// afterwards.
type Session struct {
	Encoding     document.Encoding
	Legend       semtok.Legend
	Capabilities semtok.Capabilities
	Encoder      *semtok.Encoder
}

type State struct {
	Config            config.Config
	Documents         *document.Store
	Results           *semtok.Cache
	Session           *Session
	ShutdownRequested bool
}

func NewState(cfg config.Config) State {
	return State{
		Config:  cfg,
		Results: semtok.NewCache(),
	}
}

func (s *State) Initialized() bool {
	return s.Session != nil
}

// StartSession fixes the session parameters and creates the document store.
// Closing a document drops its cached token result.
func (s *State) StartSession(enc document.Encoding, legend semtok.Legend, caps semtok.Capabilities) {
	s.Session = &Session{
		Encoding:     enc,
		Legend:       legend,
		Capabilities: caps,
		Encoder:      semtok.NewEncoder(legend, caps),
	}
	s.Documents = document.NewStore(enc, document.WithCloseHandler(s.Results.Forget))
}
