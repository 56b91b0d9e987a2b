package authsdktest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset by peer") }

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) authsdk.Envelope {
	t.Helper()

	var env authsdk.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestServeHTTPErrors(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	t.Cleanup(d.Close)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unreadable body",
			req:        httptest.NewRequest(http.MethodPost, "/", failingReader{}),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "not a POST",
			req:        httptest.NewRequest(http.MethodGet, "/", nil),
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "not JSON",
			req:        httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello")),
			wantStatus: http.StatusBadRequest,
			wantCode:   authsdk.CodeProtocol,
		},
		{
			name:       "no matching rule",
			req:        httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"authenticate"}`)),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNoRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			d.serveHTTP(rec, tt.req)

			require.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			require.Equal(t, tt.wantCode, env.Error.Code)
			require.NotEmpty(t, env.Error.Description)
		})
	}
}

func TestAddRuleNormalizesRequests(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	t.Cleanup(d.Close)

	d.AddRule(Rule{
		Request:  authsdk.AuthenticateRequest{Type: authsdk.MethodAuthenticate, AccessToken: "tok"},
		Response: map[string]any{"value": 1},
	})

	rec := httptest.NewRecorder()
	d.serveHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accessToken":"tok","type":"authenticate"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"value":1}`, rec.Body.String())
	require.Len(t, d.Requests(), 1)

	d.Reset()
	require.Empty(t, d.Requests())
}
