package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"marknav/internal/document"
	"marknav/internal/engine"
	"marknav/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	CommandNextEditPoint  = "marknav.nextEditPoint"
	CommandPrevEditPoint  = "marknav.prevEditPoint"
	CommandMergeLines     = "marknav.mergeLines"
	CommandUpdateTag      = "marknav.updateTag"
	CommandSelectNextItem = "marknav.selectNextItem"
	CommandSelectPrevItem = "marknav.selectPrevItem"
	CommandMatchTag       = "marknav.matchTag"
	CommandBalanceIn      = "marknav.balanceIn"
	CommandBalanceOut     = "marknav.balanceOut"
	CommandRemoveTag      = "marknav.removeTag"
	CommandSplitJoinTag   = "marknav.splitJoinTag"
)

// ErrNotInitialized is returned for requests that arrive before initialize.
var ErrNotInitialized = errors.New("server not initialized")

// Commands lists every command id the server executes.
func Commands() []string {
	return []string{
		CommandNextEditPoint,
		CommandPrevEditPoint,
		CommandMergeLines,
		CommandUpdateTag,
		CommandSelectNextItem,
		CommandSelectPrevItem,
		CommandMatchTag,
		CommandBalanceIn,
		CommandBalanceOut,
		CommandRemoveTag,
		CommandSplitJoinTag,
	}
}

// editCommands change the document; the others only move selections.
var editCommands = map[string]bool{
	CommandMergeLines:   true,
	CommandUpdateTag:    true,
	CommandRemoveTag:    true,
	CommandSplitJoinTag: true,
}

// CommandArgs is the first argument of every command.
type CommandArgs struct {
	URI        string               `json:"uri"`
	Selections []document.Selection `json:"selections"`
	TagName    string               `json:"tagName,omitempty"`
}

// CommandResult is returned to the client. Sent is only set for commands
// that edit: it reports whether a workspace/applyEdit request went out.
type CommandResult struct {
	Selections []document.Selection `json:"selections"`
	Sent       *bool                `json:"sent,omitempty"`
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	if s.scheduler == nil {
		return nil, ErrNotInitialized
	}
	if !isCommand(params.Command) {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	args, err := decodeArgs(params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}

	var (
		result engine.Result
		doc    *document.Document
	)
	err = s.scheduler.Submit(contextBackground(), scheduler.Task{
		Name: params.Command,
		Execute: func() (err error) {
			result, doc, err = s.run(params.Command, args)
			return err
		},
	})

	switch {
	case errors.Is(err, engine.ErrNoActiveDocument):
		showMessage(context, "No editor is active")
		return nil, nil
	case errors.Is(err, engine.ErrMissingTagName):
		showMessage(context, "No tag name given")
		return nil, nil
	case errors.Is(err, engine.ErrUnsupportedDocumentKind):
		return CommandResult{Selections: args.Selections}, nil
	case err != nil:
		return nil, err
	}

	if !editCommands[params.Command] {
		return CommandResult{Selections: result.Selections}, nil
	}

	sent, err := s.applyEdit(context, params.Command, args.URI, doc, result.Batch())
	if errors.Is(err, document.ErrOverlappingEdits) {
		showMessage(context, "Selections overlap, nothing was changed")
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return CommandResult{Selections: result.Selections, Sent: &sent}, nil
}

// run executes command against the current state of args.URI.
func (s *Server) run(command string, args CommandArgs) (engine.Result, *document.Document, error) {
	ctx := context.Background()

	snap, ok := s.manager.Snapshot(args.URI)
	if !ok {
		return engine.Result{}, nil, engine.ErrNoActiveDocument
	}
	ed := &engine.Editor{
		URI:        args.URI,
		LanguageID: snap.LanguageID,
		Document:   snap.Document,
		Selections: args.Selections,
	}

	// reuse the incremental tree for commands that read one
	_, supported := s.engine.Config().Syntax(snap.LanguageID)
	if supported && command != CommandNextEditPoint && command != CommandPrevEditPoint {
		snap, t, err := s.manager.Parse(ctx, args.URI)
		if err != nil {
			log.Debugf("%s: %s", command, err)
			return engine.Result{}, nil, engine.ErrNoActiveDocument
		}
		ed.Document, ed.Tree = snap.Document, t
	}

	result, err := Execute(ctx, s.engine, command, ed, args.TagName)
	return result, ed.Document, err
}

// Execute dispatches command to e. tagName is only read by updateTag.
func Execute(ctx context.Context, e *engine.Engine, command string, ed *engine.Editor, tagName string) (engine.Result, error) {
	switch command {
	case CommandNextEditPoint:
		return e.NextEditPoint(ed)
	case CommandPrevEditPoint:
		return e.PrevEditPoint(ed)
	case CommandSelectNextItem:
		return e.SelectNextItem(ctx, ed)
	case CommandSelectPrevItem:
		return e.SelectPrevItem(ctx, ed)
	case CommandMergeLines:
		return e.MergeLines(ctx, ed)
	case CommandUpdateTag:
		return e.UpdateTag(ctx, ed, tagName)
	case CommandMatchTag:
		return e.MatchTag(ctx, ed)
	case CommandBalanceIn:
		return e.BalanceIn(ctx, ed)
	case CommandBalanceOut:
		return e.BalanceOut(ctx, ed)
	case CommandRemoveTag:
		return e.RemoveTag(ctx, ed)
	case CommandSplitJoinTag:
		return e.SplitJoinTag(ctx, ed)
	}
	return engine.Result{}, fmt.Errorf("unknown command %q", command)
}

// applyEdit sends the whole batch as one workspace edit, so the client
// applies it atomically. It reports whether a request went out. The client's
// answer is not awaited: the connection dispatches one message at a time, so
// waiting here would stall it, and glsp's handler context is already done.
func (s *Server) applyEdit(
	context *glsp.Context,
	label string,
	uri string,
	doc *document.Document,
	batch []document.Edit,
) (bool, error) {
	if len(batch) == 0 {
		return false, nil
	}
	if err := doc.Validate(batch); err != nil {
		return false, err
	}

	params := protocol.ApplyWorkspaceEditParams{
		Label: &label,
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: doc.TextEdits(batch),
			},
		},
	}
	go func() {
		var response protocol.ApplyWorkspaceEditResponse
		context.Call(protocol.ServerWorkspaceApplyEdit, params, &response)
		log.Debugf("sent %s edit for %s", label, uri)
	}()
	return true, nil
}

func decodeArgs(arguments []any) (CommandArgs, error) {
	var args CommandArgs
	if len(arguments) == 0 {
		return args, errors.New("missing command arguments")
	}

	data, err := json.Marshal(arguments[0])
	if err != nil {
		return args, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return args, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}
	return args, nil
}

func isCommand(command string) bool {
	return slices.Contains(Commands(), command)
}

func showMessage(context *glsp.Context, message string) {
	context.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: message,
	})
}

// contextBackground is context.Background for handlers whose glsp context
// parameter shadows the package.
func contextBackground() context.Context {
	return context.Background()
}
