package server

import (
	"marknav/internal/engine"
	"marknav/internal/manager"
	"marknav/internal/parser"
	"marknav/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := s.config.Merge(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	s.config = cfg
	log.Infof("config: %+v", cfg)

	s.parsers = parser.NewParserPool(cfg.ParserPoolSize)
	s.engine = engine.New(s.parsers, cfg)
	s.manager = manager.NewDocumentManager(cfg)
	s.scheduler = scheduler.NewScheduler(cfg.SchedulerQueueSize)
	s.scheduler.RunScheduler()

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: Commands(),
	}

	version := Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	if s.scheduler != nil {
		s.scheduler.StopScheduler()
	}
	if s.manager != nil {
		if err := s.manager.CloseAll(); err != nil {
			return err
		}
	}
	if s.parsers != nil {
		return s.parsers.Close()
	}
	return nil
}
