package server_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"marknav/internal/config"
	"marknav/internal/server"

	"github.com/sourcegraph/jsonrpc2"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// dial serves a new language server over an in-memory pipe and connects a
// client to it. Workspace edits the server asks for are answered as applied
// and passed to edits.
func dial(t *testing.T, edits chan<- protocol.ApplyWorkspaceEditParams) (context.Context, *jsonrpc2.Conn) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	serverConn, clientConn := net.Pipe()
	go server.NewServer(config.Default(), false).ServeStream(serverConn, nil)

	handler := jsonrpc2.HandlerWithError(func(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		if req.Method != protocol.ServerWorkspaceApplyEdit || req.Params == nil {
			return nil, nil
		}
		var params protocol.ApplyWorkspaceEditParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		edits <- params
		return protocol.ApplyWorkspaceEditResponse{Applied: true}, nil
	})
	conn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientConn, jsonrpc2.VSCodeObjectCodec{}), handler)
	t.Cleanup(func() { conn.Close() })
	return ctx, conn
}

func TestEditOverStream(t *testing.T) {
	edits := make(chan protocol.ApplyWorkspaceEditParams, 1)
	ctx, conn := dial(t, edits)

	command := map[string]any{
		"command": server.CommandUpdateTag,
		"arguments": []any{map[string]any{
			"uri":        uri,
			"selections": []any{cursor(0, 1)},
			"tagName":    "section",
		}},
	}

	var result map[string]any
	if err := conn.Call(ctx, protocol.MethodWorkspaceExecuteCommand, command, &result); err == nil {
		t.Error("expected an error before initialize")
	}

	var initialized map[string]any
	err := conn.Call(ctx, protocol.MethodInitialize, map[string]any{
		"processId":             nil,
		"rootUri":               nil,
		"capabilities":          map[string]any{},
		"initializationOptions": map[string]any{"parser_pool_size": 1},
	}, &initialized)
	if err != nil {
		t.Fatalf("initialize error = %v", err)
	}
	if err := conn.Notify(ctx, protocol.MethodInitialized, map[string]any{}); err != nil {
		t.Fatalf("initialized error = %v", err)
	}
	err = conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "html", "version": 1, "text": "<p>hi</p>"},
	})
	if err != nil {
		t.Fatalf("didOpen error = %v", err)
	}

	if err := conn.Call(ctx, protocol.MethodWorkspaceExecuteCommand, command, &result); err != nil {
		t.Fatalf("executeCommand error = %v", err)
	}
	if result["sent"] != true {
		t.Errorf("result = %v, want sent", result)
	}

	select {
	case params := <-edits:
		changes := params.Edit.Changes[uri]
		if len(changes) != 2 || changes[0].NewText != "section" || changes[1].NewText != "section" {
			t.Errorf("workspace edit = %+v", changes)
		}
	case <-ctx.Done():
		t.Fatal("client never received workspace/applyEdit")
	}

	if err := conn.Call(ctx, protocol.MethodShutdown, nil, nil); err != nil {
		t.Errorf("shutdown error = %v", err)
	}
}
