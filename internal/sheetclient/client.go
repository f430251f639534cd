// Package sheetclient talks to the spreadsheet-backed character endpoint.
//
// The endpoint is a single URL that dispatches on query parameters (GET) or a
// JSON body (POST). Application-level failures often arrive with HTTP 200, so
// every response is decoded and normalized into one error shape, *RemoteError.
package sheetclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/investigator-sheets/internal/config"
	"github.com/jwebster45206/investigator-sheets/internal/logger"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

// Request parameter names understood by the spreadsheet script
const (
	paramAction    = "action"
	paramCharacter = "personaje"
	paramData      = "datos"
	paramCacheBust = "_cb"

	actionList   = "getCharacterNames"
	actionCreate = "create"
	actionUpdate = "update"
)

const defaultTimeout = 30 * time.Second

type Options struct {
	BaseURL    string
	Transport  string // config.TransportGET or config.TransportPOST for mutations
	HTTPClient *http.Client
	Logger     *slog.Logger
	Now        func() time.Time // cache-bust clock, defaults to time.Now
}

type Client struct {
	baseURL   string
	transport string
	http      *http.Client
	log       *slog.Logger
	now       func() time.Time
}

// MutationResult is the acknowledgment of a successful create or update
type MutationResult struct {
	Success bool
	Message string
}

// envelope is the {success, message, error} shape the script answers with
type envelope struct {
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type param struct {
	key, value string
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:   strings.TrimSpace(opts.BaseURL),
		transport: opts.Transport,
		http:      opts.HTTPClient,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if c.transport == "" {
		c.transport = config.TransportGET
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// NewFromConfig builds a client from loaded configuration
func NewFromConfig(cfg *config.Config, log *slog.Logger) *Client {
	return New(Options{
		BaseURL:    cfg.SheetURL,
		Transport:  cfg.SheetTransport,
		HTTPClient: &http.Client{Timeout: cfg.SheetTimeout},
		Logger:     log,
	})
}

// Configured reports whether the endpoint URL is set to something other than the placeholder
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.baseURL != config.PlaceholderSheetURL
}

// ListCharacters returns the visible character names in sheet order.
// Blank names and names starting with HiddenMarker are filtered out.
func (c *Client) ListCharacters(ctx context.Context) ([]string, error) {
	if !c.Configured() {
		return nil, &ConfigurationError{}
	}

	body, status, err := c.get(ctx, "list_characters", param{paramAction, actionList})
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, unexpected(status, "listing characters", err)
		}
		names := make([]string, 0, len(items))
		for _, item := range items {
			var name string
			if json.Unmarshal(item, &name) == nil {
				names = append(names, name)
			}
		}
		return visibleNames(names), nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil {
		if msg := envelopeMessage(env); msg != "" {
			return nil, &RemoteError{Message: msg, StatusCode: status}
		}
	}
	return nil, unexpected(status, "listing characters", nil)
}

// GetCharacter fetches one character record by name
func (c *Client) GetCharacter(ctx context.Context, name string) (sheet.Record, error) {
	if !c.Configured() {
		return nil, &ConfigurationError{}
	}
	name = sheet.NormalizeName(name)
	if name == "" {
		return nil, &ValidationError{Name: name, Reason: "el nombre es obligatorio"}
	}

	body, status, err := c.get(ctx, "get_character", param{paramCharacter, name})
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, unexpected(status, "loading "+name, err)
	}
	if raw, ok := fields["error"]; ok {
		if msg := envelopeMessage(envelope{Error: raw}); msg != "" {
			return nil, &RemoteError{Message: msg, StatusCode: status}
		}
	}

	var rec sheet.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, unexpected(status, "loading "+name, err)
	}
	// an empty or false error flag is not a column
	delete(rec, "error")
	return rec, nil
}

// CreateCharacter asks the endpoint to add a character with default values.
// The name is validated locally first; a rejected name never reaches the network.
func (c *Client) CreateCharacter(ctx context.Context, name string) (*MutationResult, error) {
	if !c.Configured() {
		return nil, &ConfigurationError{}
	}
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, "create_character", actionCreate, name, nil, "could not create character")
}

// UpdateCharacter writes the given fields of a character
func (c *Client) UpdateCharacter(ctx context.Context, name string, data sheet.Record) (*MutationResult, error) {
	if !c.Configured() {
		return nil, &ConfigurationError{}
	}
	name = sheet.NormalizeName(name)
	if name == "" {
		return nil, &ValidationError{Name: name, Reason: "el nombre es obligatorio"}
	}
	if data == nil {
		data = sheet.Record{}
	}
	return c.mutate(ctx, "update_character", actionUpdate, name, data, "could not save changes")
}

func (c *Client) mutate(ctx context.Context, op, action, name string, data sheet.Record, fallback string) (*MutationResult, error) {
	var (
		body   []byte
		status int
		err    error
	)

	if c.transport == config.TransportPOST {
		payload := map[string]any{
			paramAction:    action,
			paramCharacter: name,
		}
		if data != nil {
			payload[paramData] = data
		}
		body, status, err = c.post(ctx, op, payload)
	} else {
		params := []param{{paramAction, action}, {paramCharacter, name}}
		if data != nil {
			encoded, mErr := json.Marshal(data)
			if mErr != nil {
				return nil, fmt.Errorf("failed to marshal character data: %w", mErr)
			}
			params = append(params, param{paramData, string(encoded)})
		}
		body, status, err = c.get(ctx, op, params...)
	}
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, unexpected(status, "processing "+action, err)
	}
	if env.Success == nil || !*env.Success {
		msg := envelopeMessage(env)
		if msg == "" {
			msg = fallback
		}
		return nil, &RemoteError{Message: msg, StatusCode: status}
	}

	result := &MutationResult{Success: true}
	if s, ok := rawString(env.Message); ok {
		result.Message = s
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, op string, params ...param) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(params...), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.roundTrip(op, req)
}

func (c *Client) post(ctx context.Context, op string, payload any) ([]byte, int, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(op, req)
}

// roundTrip sends req and returns the body of a 2xx response.
// Anything else becomes a *RemoteError.
func (c *Client) roundTrip(op string, req *http.Request) ([]byte, int, error) {
	requestID := uuid.NewString()
	log := logger.WithRequestID(c.log, requestID).With("op", op, "method", req.Method)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithError(log, err).Error("Spreadsheet request failed")
		return nil, 0, &RemoteError{Message: transportMessage(err), Cause: err}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithError(log, err).Error("Failed to read spreadsheet response", "status", resp.StatusCode)
		return nil, resp.StatusCode, &RemoteError{
			Message:    fmt.Sprintf("failed to read response: %v", err),
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fallback := fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		msg := errorBodyMessage(body, fallback)
		log.Error("Spreadsheet returned error status", "status", resp.StatusCode, "message", msg)
		return nil, resp.StatusCode, &RemoteError{Message: msg, StatusCode: resp.StatusCode}
	}

	log.Debug("Spreadsheet request complete",
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))
	return body, resp.StatusCode, nil
}

// buildURL appends params plus a time-derived cache-busting parameter
func (c *Client) buildURL(params ...param) string {
	params = append(params, param{paramCacheBust, strconv.FormatInt(c.now().UnixNano(), 10)})

	var b strings.Builder
	b.WriteString(c.baseURL)
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	for _, p := range params {
		b.WriteString(sep)
		b.WriteString(encodeComponent(p.key))
		b.WriteString("=")
		b.WriteString(encodeComponent(p.value))
		sep = "&"
	}
	return b.String()
}

// encodeComponent percent-encodes the UTF-8 bytes of s the way JavaScript's
// encodeURIComponent does: only A-Z a-z 0-9 and - _ . ! ~ * ' ( ) pass through.
func encodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if componentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func componentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// envelopeMessage picks the most specific message: error string, then
// message string, then the compact JSON of an unrecognized error value.
// It returns "" when none is present.
func envelopeMessage(env envelope) string {
	if s, ok := rawString(env.Error); ok && s != "" {
		return s
	}
	if s, ok := rawString(env.Message); ok && s != "" {
		return s
	}
	raw := bytes.TrimSpace(env.Error)
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

func errorBodyMessage(body []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fallback
	}
	if msg := envelopeMessage(env); msg != "" {
		return msg
	}
	return fallback
}

func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return "network request failed: " + err.Error()
}

func unexpected(status int, what string, cause error) *RemoteError {
	return &RemoteError{
		Message:    "unexpected response from server while " + what,
		StatusCode: status,
		Cause:      cause,
	}
}
