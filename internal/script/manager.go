// Package script answers JSON-RPC calls with JavaScript handlers.
//
// Handlers are loaded from .js files. Each file must contain:
//   - one or more // @method directives naming the JSON-RPC methods it answers
//   - an execute(params, method) function returning the result
//
// Handlers can log through console, use utils.parseJSON,
// utils.stringifyJSON and utils.keccak256, and keep state between calls in
// store. A thrown {code, message} object becomes that JSON-RPC error; any
// other exception becomes ErrCodeExecution.
//
// Example handler:
//
//	// @method getSingleOffer
//	function execute(params) {
//	    var offer = store.get("offer:" + params.offerId);
//	    if (offer === null) {
//	        throw { code: 404, message: "Offer not found" };
//	    }
//	    return offer;
//	}
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"cleengo/internal/jsonrpc"
)

// DefaultExecutionTimeout bounds one handler run
const DefaultExecutionTimeout = 5 * time.Second

var methodDirectiveRegex = regexp.MustCompile(`(?m)^//\s*@method\s+(\S+)`)

// Manager holds the handlers and the state they share
type Manager struct {
	handlers map[string]*Handler // method -> handler
	store    *Store
	logger   zerolog.Logger
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewManager creates an empty Manager
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		handlers: make(map[string]*Handler),
		store:    NewStore(),
		logger:   logger.With().Str("component", "script-manager").Logger(),
		timeout:  DefaultExecutionTimeout,
	}
}

// SetTimeout sets the execution timeout for handlers
func (m *Manager) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		m.timeout = timeout
	}
}

// Store returns the shared handler state
func (m *Manager) Store() *Store {
	return m.store
}

// LoadFromDirectory loads every .js handler in dir. A missing directory is
// not an error.
func (m *Manager) LoadFromDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		m.logger.Warn().Str("directory", dir).Msg("scripts directory does not exist")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat scripts directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scripts path is not a directory: %s", dir)
	}
	return m.LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every .js handler in dir of fsys. A file that fails to load
// is logged and skipped.
func (m *Manager) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read scripts directory: %w", err)
	}

	loadedCount := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".js") {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err == nil {
			err = m.Register(strings.TrimSuffix(entry.Name(), ".js"), string(content))
		}
		if err != nil {
			m.logger.Error().
				Err(err).
				Str("file", entry.Name()).
				Msg("failed to load script")
			continue
		}
		loadedCount++
	}

	m.logger.Info().
		Int("loaded", loadedCount).
		Str("directory", dir).
		Msg("scripts loaded")
	return nil
}

// Register adds a handler from source for every method named by its
// @method directives. A method may only be registered once; on conflict
// nothing from source is registered.
func (m *Manager) Register(name, source string) error {
	methods := extractMethodDirectives(source)
	if len(methods) == 0 {
		return fmt.Errorf("script missing @method directive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, method := range methods {
		if _, exists := m.handlers[method]; exists {
			return fmt.Errorf("duplicate method: %s", method)
		}
	}
	for _, method := range methods {
		m.handlers[method] = &Handler{Name: name, Method: method, Script: source}
	}

	m.logger.Debug().
		Str("name", name).
		Strs("methods", methods).
		Msg("script registered")
	return nil
}

func extractMethodDirectives(script string) []string {
	var methods []string
	seen := make(map[string]bool)
	for _, match := range methodDirectiveRegex.FindAllStringSubmatch(script, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			methods = append(methods, match[1])
		}
	}
	return methods
}

// HasHandler checks if a handler exists for method
func (m *Manager) HasHandler(method string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.handlers[method]
	return exists
}

// Methods returns the registered methods, sorted
func (m *Manager) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	methods := make([]string, 0, len(m.handlers))
	for method := range m.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Execute runs the handler for req and always returns a response
func (m *Manager) Execute(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	m.mu.RLock()
	handler, exists := m.handlers[req.Method]
	m.mu.RUnlock()

	if !exists {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.CodeMethodNotFound, "Method not found: "+req.Method))
	}

	execCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// each run gets its own VM; goja runtimes are not goroutine safe
	runtime := NewRuntime(m.store, m.logger)

	resultCh := make(chan *jsonrpc.Response, 1)
	go func() {
		resultCh <- m.run(runtime, handler, req)
	}()

	select {
	case <-execCtx.Done():
		runtime.VM().Interrupt(execCtx.Err())
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			m.logger.Warn().
				Str("method", req.Method).
				Dur("timeout", m.timeout).
				Msg("script execution timed out")
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(ErrCodeTimeout, "script execution timed out"))
		}
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.CodeInternalError, "request cancelled"))
	case result := <-resultCh:
		return result
	}
}

func (m *Manager) run(runtime *Runtime, handler *Handler, req *jsonrpc.Request) *jsonrpc.Response {
	if _, err := runtime.RunScript(handler.Script); err != nil {
		m.logger.Error().
			Err(err).
			Str("script", handler.Name).
			Msg("failed to load script")
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(ErrCodeExecution, fmt.Sprintf("script error: %v", err)))
	}

	var params interface{} = map[string]interface{}{}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(ErrCodeInvalidArgs, fmt.Sprintf("invalid params: %v", err)))
		}
	}

	result, err := m.callExecute(runtime, params, req.Method)
	if err != nil {
		var scriptErr *Error
		if !errors.As(err, &scriptErr) {
			scriptErr = &Error{Code: ErrCodeExecution, Message: err.Error()}
		}
		m.logger.Debug().
			Str("script", handler.Name).
			Int("code", scriptErr.Code).
			Str("error", scriptErr.Message).
			Msg("script returned error")
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(scriptErr.Code, scriptErr.Message))
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.CodeInternalError, fmt.Sprintf("failed to marshal result: %v", err)))
	}
	return jsonrpc.NewResponseRaw(req.ID, resultJSON)
}

func (m *Manager) callExecute(runtime *Runtime, params interface{}, method string) (interface{}, error) {
	vm := runtime.VM()

	executeVal := vm.Get("execute")
	if executeVal == nil || goja.IsUndefined(executeVal) {
		return nil, fmt.Errorf("execute function not defined")
	}
	execute, ok := goja.AssertFunction(executeVal)
	if !ok {
		return nil, fmt.Errorf("execute is not a function")
	}

	result, err := execute(goja.Undefined(), vm.ToValue(params), vm.ToValue(method))
	if err != nil {
		var jsErr *goja.Exception
		if errors.As(err, &jsErr) {
			return nil, thrownError(jsErr)
		}
		return nil, err
	}
	return result.Export(), nil
}

// thrownError maps a JavaScript exception onto an Error. Objects with a
// numeric code keep it; everything else gets ErrCodeExecution.
func thrownError(ex *goja.Exception) *Error {
	val := ex.Value()
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return &Error{Code: ErrCodeExecution, Message: ex.Error()}
	}
	if obj, ok := val.(*goja.Object); ok {
		e := &Error{Code: ErrCodeExecution, Message: val.String()}
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			e.Message = msg.String()
		}
		if code := obj.Get("code"); code != nil && !goja.IsUndefined(code) {
			if n, ok := code.Export().(int64); ok {
				e.Code = int(n)
			}
		}
		return e
	}
	return &Error{Code: ErrCodeExecution, Message: val.String()}
}

// HandleBatch answers a raw JSON-RPC body: a batch array gets an array of
// responses in request order, a single request gets a single response.
// Notifications get no response; nil is returned when nothing is owed.
func (m *Manager) HandleBatch(ctx context.Context, body []byte) ([]byte, error) {
	requests, isBatch, err := jsonrpc.ParseBatchRequest(body)
	if err != nil {
		return jsonrpc.NewErrorResponse(jsonrpc.NewIDNull(), jsonrpc.ErrParse).Bytes()
	}
	if isBatch && len(requests) == 0 {
		return jsonrpc.NewErrorResponse(jsonrpc.NewIDNull(), jsonrpc.ErrInvalidRequest).Bytes()
	}

	responses := make([]*jsonrpc.Response, 0, len(requests))
	for _, req := range requests {
		if req == nil {
			responses = append(responses, jsonrpc.NewErrorResponse(jsonrpc.NewIDNull(), jsonrpc.ErrInvalidRequest))
			continue
		}
		if err := req.Validate(); err != nil {
			responses = append(responses, jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.CodeInvalidRequest, err.Error())))
			continue
		}
		resp := m.Execute(ctx, req)
		if req.IsNotification() {
			continue
		}
		responses = append(responses, resp)
	}

	if len(responses) == 0 {
		return nil, nil
	}
	if !isBatch {
		return responses[0].Bytes()
	}
	return jsonrpc.MarshalBatchResponse(responses)
}

// Close drops every handler
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = make(map[string]*Handler)
	m.logger.Info().Msg("script manager closed")
}
