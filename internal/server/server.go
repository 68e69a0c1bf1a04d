package server

import (
	"marknav/internal/config"
	"marknav/internal/engine"
	"marknav/internal/manager"
	"marknav/internal/parser"
	"marknav/internal/scheduler"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const Name = "marknav"

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

var log = commonlog.GetLogger("marknav.server")

type Server struct {
	handler   *protocol.Handler
	config    config.Config
	manager   *manager.DocumentManager
	parsers   *parser.ParserPool
	engine    *engine.Engine
	scheduler *scheduler.Scheduler
}

// New creates the language server state. cfg is the base configuration,
// client initialization options are merged over it.
func New(cfg config.Config) *Server {
	ls := &Server{config: cfg}
	ls.handler = &protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
	}
	return ls
}

// NewServer creates a glsp server speaking for a new Server.
func NewServer(cfg config.Config, debug bool) *server.Server {
	ls := New(cfg)
	return server.NewServer(ls.handler, Name, debug)
}

func (s *Server) Handler() *protocol.Handler {
	return s.handler
}
