package server

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	if s.manager == nil {
		return ErrNotInitialized
	}
	doc := params.TextDocument
	return s.manager.Open(doc.URI, doc.LanguageID, doc.Text)
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	if s.manager == nil {
		return ErrNotInitialized
	}
	uri := params.TextDocument.URI
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if err := s.manager.ApplyIncrementalEdit(uri, change); err != nil {
				return fmt.Errorf("unexpected error during edit: %w", err)
			}
		case protocol.TextDocumentContentChangeEventWhole:
			if err := s.manager.Replace(uri, change.Text); err != nil {
				return fmt.Errorf("unexpected error during edit: %w", err)
			}
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	if s.manager == nil {
		return ErrNotInitialized
	}
	s.manager.Release(params.TextDocument.URI)
	return nil
}
