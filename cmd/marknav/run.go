package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"marknav/internal/config"
	"marknav/internal/document"
	"marknav/internal/engine"
	"marknav/internal/parser"
	"marknav/internal/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

type runOptions struct {
	command  string
	file     string
	language string
	at       string
	tag      string
}

// languageAliases maps file extensions that are not language ids.
var languageAliases = map[string]string{
	"htm":   "html",
	"xhtml": "html",
	"svg":   "xml",
	"jsx":   "javascriptreact",
	"tsx":   "typescriptreact",
}

type runOutput struct {
	Selections []document.Selection `json:"selections"`
	Text       *string              `json:"text,omitempty"`
}

// run executes one command on a file and writes the result as JSON to w.
func run(w io.Writer, cfg config.Config, opts runOptions) error {
	command := opts.command
	if !strings.HasPrefix(command, server.Name+".") {
		command = server.Name + "." + command
	}
	if !slices.Contains(server.Commands(), command) {
		return fmt.Errorf("unknown command %q", opts.command)
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return err
	}
	selections, err := parseSelections(opts.at)
	if err != nil {
		return err
	}

	language := opts.language
	if language == "" {
		language = strings.TrimPrefix(filepath.Ext(opts.file), ".")
		if alias, ok := languageAliases[language]; ok {
			language = alias
		}
	}

	pool := parser.NewParserPool(1)
	defer pool.Close()
	e := engine.New(pool, cfg)

	ed := &engine.Editor{
		URI:        opts.file,
		LanguageID: language,
		Document:   document.New(string(data)),
		Selections: selections,
	}

	result, err := server.Execute(context.Background(), e, command, ed, opts.tag)
	// structural commands leave unsupported documents as they are
	if errors.Is(err, engine.ErrUnsupportedDocumentKind) {
		result, err = engine.Result{Selections: selections}, nil
	}
	if err != nil {
		return err
	}

	out := runOutput{Selections: result.Selections}
	if result.Edits != nil {
		text, err := ed.Document.Apply(result.Batch())
		if err != nil {
			return err
		}
		out.Text = &text
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseSelections reads "line:col" cursors and "line:col-line:col"
// selections separated by ";".
func parseSelections(s string) ([]document.Selection, error) {
	var out []document.Selection
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		anchorText, activeText, isRange := strings.Cut(part, "-")
		anchor, err := parsePosition(anchorText)
		if err != nil {
			return nil, err
		}
		active := anchor
		if isRange {
			if active, err = parsePosition(activeText); err != nil {
				return nil, err
			}
		}
		out = append(out, document.NewSelection(anchor, active))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no selections in %q", s)
	}
	return out, nil
}

func parsePosition(s string) (protocol.Position, error) {
	lineText, charText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return protocol.Position{}, fmt.Errorf("position %q is not line:col", s)
	}
	line, err := strconv.ParseUint(lineText, 10, 32)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("bad line in %q: %w", s, err)
	}
	char, err := strconv.ParseUint(charText, 10, 32)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("bad column in %q: %w", s, err)
	}
	return protocol.Position{Line: uint32(line), Character: uint32(char)}, nil
}
