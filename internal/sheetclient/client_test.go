package sheetclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jwebster45206/investigator-sheets/internal/config"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSheet records incoming requests and answers with a canned status and body
type fakeSheet struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	status   int
	body     string
	hits     atomic.Int32
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, data)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeSheet) lastRequest(t *testing.T) (*http.Request, []byte) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the fake endpoint")
	return f.requests[len(f.requests)-1], f.bodies[len(f.bodies)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, fake *fakeSheet, transport string) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:   srv.URL + "/exec",
		Transport: transport,
		Logger:    testLogger(),
	})
}

func TestClient_Unconfigured(t *testing.T) {
	fake := &fakeSheet{body: `[]`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	for _, base := range []string{"", "   ", config.PlaceholderSheetURL} {
		c := New(Options{BaseURL: base, Logger: testLogger()})
		assert.False(t, c.Configured())

		ctx := context.Background()
		var cfgErr *ConfigurationError

		_, err := c.ListCharacters(ctx)
		assert.ErrorAs(t, err, &cfgErr)
		_, err = c.GetCharacter(ctx, "Silas")
		assert.ErrorAs(t, err, &cfgErr)
		_, err = c.CreateCharacter(ctx, "Silas")
		assert.ErrorAs(t, err, &cfgErr)
		_, err = c.UpdateCharacter(ctx, "Silas", sheet.Record{})
		assert.ErrorAs(t, err, &cfgErr)
	}
	assert.Zero(t, fake.hits.Load(), "unconfigured client reached the network")
}

func TestClient_ListCharacters(t *testing.T) {
	fake := &fakeSheet{body: `["Silas", "", "   ", "*Cultista", "Evelyn", 42, "Harker"]`}
	c := newTestClient(t, fake, config.TransportGET)

	names, err := c.ListCharacters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Silas", "Evelyn", "Harker"}, names)

	req, _ := fake.lastRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "getCharacterNames", req.URL.Query().Get("action"))
	assert.NotEmpty(t, req.URL.Query().Get("_cb"))
}

func TestClient_ListCharacters_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error envelope", http.StatusOK, `{"error":"Hoja no encontrada"}`, "Hoja no encontrada"},
		{"unexpected object", http.StatusOK, `{"names":[]}`, "unexpected response from server while listing characters"},
		{"not json", http.StatusOK, `<html>login</html>`, "unexpected response from server while listing characters"},
		{"http error without body", http.StatusBadGateway, ``, "HTTP 502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSheet{status: tt.status, body: tt.body}
			c := newTestClient(t, fake, config.TransportGET)

			_, err := c.ListCharacters(context.Background())
			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.wantMsg, remoteErr.Message)
			assert.Equal(t, tt.status, remoteErr.StatusCode)
		})
	}
}

func TestClient_GetCharacter(t *testing.T) {
	fake := &fakeSheet{body: `{"Fuerza":"4","Agilidad":3,"Inventario":"cuchillo"}`}
	c := newTestClient(t, fake, config.TransportGET)

	rec, err := c.GetCharacter(context.Background(), "Silas Ó'Brien")
	require.NoError(t, err)
	assert.Equal(t, sheet.Record{"Fuerza": "4", "Agilidad": "3", "Inventario": "cuchillo"}, rec)

	req, _ := fake.lastRequest(t)
	assert.Equal(t, "Silas Ó'Brien", req.URL.Query().Get("personaje"))
	assert.Contains(t, req.URL.RawQuery, "personaje=Silas%20%C3%93'Brien")
}

func TestClient_GetCharacter_EmptyErrorFlag(t *testing.T) {
	for _, body := range []string{
		`{"Fuerza":"4","error":""}`,
		`{"Fuerza":"4","error":false}`,
		`{"Fuerza":"4","error":null}`,
	} {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, &fakeSheet{body: body}, config.TransportGET)

			rec, err := c.GetCharacter(context.Background(), "Silas")
			require.NoError(t, err)
			assert.Equal(t, sheet.Record{"Fuerza": "4"}, rec)
		})
	}

	c := newTestClient(t, &fakeSheet{body: `{"Fuerza":"4","error":true}`}, config.TransportGET)
	_, err := c.GetCharacter(context.Background(), "Silas")
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "true", remoteErr.Message)
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Silas", "Silas"},
		{"Silas Ó'Brien", "Silas%20%C3%93'Brien"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
		{"¿qué?/#", "%C2%BFqu%C3%A9%3F%2F%23"},
		{`{"Fuerza":"4"}`, "%7B%22Fuerza%22%3A%224%22%7D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeComponent(tt.in), tt.in)
	}
}

func TestClient_GetCharacter_ServerDown(t *testing.T) {
	fake := &fakeSheet{status: http.StatusInternalServerError, body: `{"error":"server down"}`}
	c := newTestClient(t, fake, config.TransportGET)

	_, err := c.GetCharacter(context.Background(), "Silas")
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "server down", remoteErr.Message)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
}

func TestClient_GetCharacter_UnknownName(t *testing.T) {
	fake := &fakeSheet{body: `{"error":"Personaje no encontrado"}`}
	c := newTestClient(t, fake, config.TransportGET)

	_, err := c.GetCharacter(context.Background(), "Nadie")
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Personaje no encontrado", remoteErr.Message)
}

func TestClient_GetCharacter_MalformedShapes(t *testing.T) {
	for _, body := range []string{`null`, `["Silas"]`, `"Silas"`, `{"Fuerza":{"x":1}}`} {
		fake := &fakeSheet{body: body}
		c := newTestClient(t, fake, config.TransportGET)

		_, err := c.GetCharacter(context.Background(), "Silas")
		var remoteErr *RemoteError
		assert.ErrorAs(t, err, &remoteErr, body)
	}
}

func TestClient_CreateCharacter_LocalValidation(t *testing.T) {
	fake := &fakeSheet{body: `{"success":true}`}
	c := newTestClient(t, fake, config.TransportGET)

	for _, name := range []string{"Eve/Anne", "  ", "", "¿Quién?"} {
		_, err := c.CreateCharacter(context.Background(), name)
		var valErr *ValidationError
		assert.ErrorAs(t, err, &valErr, "name %q", name)
	}
	assert.Zero(t, fake.hits.Load(), "invalid names reached the network")
}

func TestClient_CreateCharacter(t *testing.T) {
	fake := &fakeSheet{body: `{"success":true,"message":"Personaje \"Evelyn\" creado."}`}
	c := newTestClient(t, fake, config.TransportGET)

	res, err := c.CreateCharacter(context.Background(), "  Evelyn  ")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, `Personaje "Evelyn" creado.`, res.Message)

	req, _ := fake.lastRequest(t)
	q := req.URL.Query()
	assert.Equal(t, "create", q.Get("action"))
	assert.Equal(t, "Evelyn", q.Get("personaje"))
}

func TestClient_CreateCharacter_Duplicate(t *testing.T) {
	fake := &fakeSheet{body: `{"success":false,"error":"duplicate"}`}
	c := newTestClient(t, fake, config.TransportGET)

	res, err := c.CreateCharacter(context.Background(), "Silas")
	assert.Nil(t, res)
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "duplicate", remoteErr.Message)
	assert.Equal(t, http.StatusOK, remoteErr.StatusCode)
}

func TestClient_MutationMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error string wins", `{"success":false,"error":"nombre en uso","message":"otra cosa"}`, "nombre en uso"},
		{"message when no error", `{"success":false,"message":"hoja bloqueada"}`, "hoja bloqueada"},
		{"empty error falls to message", `{"success":false,"error":"","message":"hoja bloqueada"}`, "hoja bloqueada"},
		{"object error serialized", `{"success":false,"error":{"code": 403, "reason": "forbidden"}}`, `{"code":403,"reason":"forbidden"}`},
		{"generic fallback", `{"success":false}`, "could not save changes"},
		{"missing success flag", `{"message":"ok?"}`, "ok?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSheet{body: tt.body}
			c := newTestClient(t, fake, config.TransportGET)

			_, err := c.UpdateCharacter(context.Background(), "Silas", sheet.Record{"Fuerza": "4"})
			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.want, remoteErr.Message)
		})
	}
}

func TestClient_UpdateCharacter_GET(t *testing.T) {
	fake := &fakeSheet{body: `{"success":true}`}
	c := newTestClient(t, fake, config.TransportGET)

	data := sheet.Record{"Fuerza": "4", "Inventario": "cuerda & linterna"}
	res, err := c.UpdateCharacter(context.Background(), "Silas", data)
	require.NoError(t, err)
	assert.True(t, res.Success)

	req, _ := fake.lastRequest(t)
	q := req.URL.Query()
	assert.Equal(t, "update", q.Get("action"))
	assert.Equal(t, "Silas", q.Get("personaje"))

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(q.Get("datos")), &sent))
	assert.Equal(t, map[string]string(data), sent)
}

func TestClient_UpdateCharacter_POST(t *testing.T) {
	fake := &fakeSheet{body: `{"success":true,"message":"Guardado"}`}
	c := newTestClient(t, fake, config.TransportPOST)

	res, err := c.UpdateCharacter(context.Background(), "Silas", sheet.Record{"Fuerza": "5"})
	require.NoError(t, err)
	assert.Equal(t, "Guardado", res.Message)

	req, body := fake.lastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.NotEmpty(t, req.URL.Query().Get("_cb"))

	var payload struct {
		Action    string            `json:"action"`
		Personaje string            `json:"personaje"`
		Datos     map[string]string `json:"datos"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "update", payload.Action)
	assert.Equal(t, "Silas", payload.Personaje)
	assert.Equal(t, map[string]string{"Fuerza": "5"}, payload.Datos)
}

func TestClient_CacheBustVaries(t *testing.T) {
	fake := &fakeSheet{body: `[]`}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	tick := time.Unix(1700000000, 0)
	c := New(Options{
		BaseURL: srv.URL,
		Logger:  testLogger(),
		Now: func() time.Time {
			tick = tick.Add(time.Millisecond)
			return tick
		},
	})

	_, err := c.ListCharacters(context.Background())
	require.NoError(t, err)
	_, err = c.ListCharacters(context.Background())
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 2)
	first := fake.requests[0].URL.Query().Get("_cb")
	second := fake.requests[1].URL.Query().Get("_cb")
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close() // nothing listens here any more

	c := New(Options{BaseURL: base, Logger: testLogger(), HTTPClient: &http.Client{Timeout: time.Second}})

	_, err := c.ListCharacters(context.Background())
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Contains(t, remoteErr.Message, "network request failed")
	assert.Zero(t, remoteErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(remoteErr))
}

func TestClient_ContextCancelled(t *testing.T) {
	fake := &fakeSheet{body: `[]`}
	c := newTestClient(t, fake, config.TransportGET)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListCharacters(ctx)
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Silas", "Silas", false},
		{"  Evelyn Marsh ", "Evelyn Marsh", false},
		{"Percepción", "Percepción", false},
		{"Eve/Anne", "", true},
		{"Who?", "", true},
		{"\t ", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateName(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
