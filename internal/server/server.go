package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"reflow/internal/assist"
	"reflow/internal/edit"
	"reflow/internal/layout"
	"reflow/internal/options"
	"reflow/internal/rules"
	"reflow/internal/source"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("server exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("server exit without shutdown")
)

// ServerOptions configures server behavior.
type ServerOptions struct {
	// Options pins a fixed option set for every document. When nil, options
	// are discovered from reflow.toml next to each file.
	Options *options.Set
}

// Server handles stdio JSON-RPC for the reflow formatting service.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu                sync.Mutex
	openDocs          map[string]string
	versions          map[string]int
	workspaceRoot     string
	shutdownRequested bool
	overrides         *options.Set
	clientTab         *formattingOptions

	formatter *assist.Formatter
	baseCtx   context.Context
}

// NewServer constructs a server reading requests from in and writing
// responses to out.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	s := &Server{
		in:        bufio.NewReader(in),
		out:       bufio.NewWriter(out),
		openDocs:  make(map[string]string),
		versions:  make(map[string]int),
		overrides: opts.Options,
	}
	s.formatter = assist.New(assist.Services{
		Trees:   assist.ParseTrees{},
		Options: serverOptions{s},
		Ranges:  assist.TreeRanges{},
		Rules:   serverRules{s},
		Engine:  layout.NewEngine(),
	})
	return s
}

// Run serves requests until the client exits or the stream closes.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/rangeFormatting":
		return s.handleRangeFormatting(msg)
	case "textDocument/onTypeFormatting":
		return s.handleOnTypeFormatting(msg)
	case "reflow/onPaste":
		return s.handleOnPaste(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
			},
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
			DocumentOnTypeFormattingProvider: &onTypeFormattingOptions{
				FirstTriggerCharacter: ";",
				MoreTriggerCharacter:  []string{"}", "{", "#", "n", "t", "e", ":", ")", "\n"},
			},
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if params.TextDocument.URI == "" {
		return nil
	}
	s.mu.Lock()
	s.openDocs[params.TextDocument.URI] = params.TextDocument.Text
	s.versions[params.TextDocument.URI] = params.TextDocument.Version
	s.mu.Unlock()
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	text := s.openDocs[uri]
	s.openDocs[uri] = applyChanges(text, params.ContentChanges)
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.openDocs, params.TextDocument.URI)
	delete(s.versions, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	s.rememberClientTab(params.Options)

	edits, err := s.formatter.OnDemand(s.baseCtx, doc, nil)
	if err != nil {
		return err
	}
	return s.sendResponse(msg.ID, s.textEdits(doc, edits))
}

func (s *Server) handleRangeFormatting(msg *rpcMessage) error {
	var params documentRangeFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	s.rememberClientTab(params.Options)

	span := spanForRange(doc.File, params.Range)
	edits, err := s.formatter.OnDemand(s.baseCtx, doc, &span)
	if err != nil {
		return err
	}
	return s.sendResponse(msg.ID, s.textEdits(doc, edits))
}

func (s *Server) handleOnTypeFormatting(msg *rpcMessage) error {
	var params documentOnTypeFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	s.rememberClientTab(params.Options)

	caret := offsetForPositionInFile(doc.File, params.Position)
	var err error
	var edits []edit.Edit
	switch {
	case params.Ch == "\n":
		edits, err = s.formatter.OnReturn(s.baseCtx, doc, caret)
	case len(params.Ch) == 1:
		edits, err = s.formatter.OnTypedChar(s.baseCtx, doc, params.Ch[0], caret)
	default:
		return s.sendResponse(msg.ID, nil)
	}
	if err != nil {
		return err
	}
	return s.sendResponse(msg.ID, s.textEdits(doc, edits))
}

func (s *Server) handleOnPaste(msg *rpcMessage) error {
	var params onPasteParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	s.rememberClientTab(params.Options)

	span := spanForRange(doc.File, params.Range)
	edits, err := s.formatter.OnPaste(s.baseCtx, doc, span)
	if err != nil {
		return err
	}
	return s.sendResponse(msg.ID, s.textEdits(doc, edits))
}

// document builds an immutable snapshot for the given open document.
func (s *Server) document(uri string) (assist.Document, bool) {
	s.mu.Lock()
	text, ok := s.openDocs[uri]
	s.mu.Unlock()
	if !ok {
		return assist.Document{}, false
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(uriToPath(uri), []byte(text))
	return assist.Document{File: fs.Get(id)}, true
}

func (s *Server) rememberClientTab(opts formattingOptions) {
	if opts.TabSize <= 0 {
		return
	}
	s.mu.Lock()
	s.clientTab = &opts
	s.mu.Unlock()
}

func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings clientSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	sec := settings.Reflow.Format

	s.mu.Lock()
	defer s.mu.Unlock()
	set := options.Default()
	if s.overrides != nil {
		set = *s.overrides
	}
	if sec.SmartIndent != nil {
		if style, err := options.ParseSmartIndentStyle(*sec.SmartIndent); err == nil {
			set.SmartIndent = style
		}
	}
	if sec.OnCloseBrace != nil {
		set.AutoFormatOnCloseBrace = *sec.OnCloseBrace
	}
	if sec.OnSemicolon != nil {
		set.AutoFormatOnSemicolon = *sec.OnSemicolon
	}
	if sec.IndentWidth != nil && *sec.IndentWidth > 0 {
		set.IndentWidth = *sec.IndentWidth
	}
	if sec.UseTabs != nil {
		set.UseTabs = *sec.UseTabs
	}
	if sec.IndentCaseLabels != nil {
		set.IndentCaseLabels = *sec.IndentCaseLabels
	}
	s.overrides = &set
}

func (s *Server) textEdits(doc assist.Document, edits []edit.Edit) []textEdit {
	if len(edits) == 0 {
		return nil
	}
	out := make([]textEdit, len(edits))
	for i, e := range edits {
		out[i] = textEdit{
			Range:   rangeForSpan(doc.File, e.Span),
			NewText: e.NewText,
		}
	}
	return out
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "server: "+format+"\n", args...)
}

// serverOptions adapts the server's configuration state to the option
// provider contract.
type serverOptions struct {
	s *Server
}

func (p serverOptions) OptionsFor(_ context.Context, path string) (options.Set, error) {
	p.s.mu.Lock()
	overrides := p.s.overrides
	p.s.mu.Unlock()
	if overrides != nil {
		return *overrides, nil
	}
	return options.Discover(path)
}

// serverRules feeds the editor session's tab preferences in ahead of the
// default rule set.
type serverRules struct {
	s *Server
}

func (r serverRules) Defaults(_ assist.Document, opts options.Set) []layout.Rule {
	return rules.Defaults(opts)
}

func (r serverRules) HostRules(assist.Document, uint32) []layout.Rule {
	r.s.mu.Lock()
	tab := r.s.clientTab
	r.s.mu.Unlock()
	if tab == nil {
		return nil
	}
	return []layout.Rule{rules.TabSettings(tab.TabSize, !tab.InsertSpaces)}
}
