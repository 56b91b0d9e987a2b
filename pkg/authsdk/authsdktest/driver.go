// Package authsdktest provides a rule-based fake of the authentication
// endpoint for tests.
//
//	driver := authsdktest.NewDriver()
//	defer driver.Close()
//
//	driver.AddRule(authsdktest.Rule{
//		Request:  map[string]any{"type": "authenticate", "accessToken": "tok"},
//		Response: map[string]any{"value": map[string]any{"ok": true}},
//	})
//
//	auth, _ := authsdk.NewAuthentication(authsdk.Config{
//		Transport:   http.DefaultClient,
//		EndpointURL: driver.URL(),
//	})
package authsdktest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
	"github.com/aussiebroadwan/openrestauth/pkg/httpx"
	"github.com/aussiebroadwan/openrestauth/pkg/slogx"
)

// Error codes written by the driver itself.
const (
	// CodeNoRule is returned for requests no rule matches.
	CodeNoRule = "no_rule"

	// CodeInvalidRequest is returned for non-POST requests and unreadable bodies.
	CodeInvalidRequest = "invalid_request"
)

// Rule maps one exact request to a canned response.
type Rule struct {
	// Request is compared by JSON value with each incoming body.
	Request any

	// Response is JSON-encoded, or written as-is when RawResponse is set
	// (it must then be a string or []byte).
	Response any

	// RawResponse writes Response verbatim, e.g. an HTML error page.
	RawResponse bool

	// Status is the HTTP status to reply with. Default: 200
	Status int

	// Delay holds the response back, for timeout tests.
	Delay time.Duration
}

type compiledRule struct {
	Rule
	request any
}

// Driver is a fake endpoint backed by an httptest.Server.
type Driver struct {
	server *httptest.Server
	done   chan struct{}
	once   sync.Once

	mu       sync.Mutex
	rules    []compiledRule
	requests []any
}

// Option configures a Driver.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger logs every request the driver receives.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewDriver starts a Driver listening on a local port.
func NewDriver(opts ...Option) *Driver {
	o := options{logger: slogx.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Driver{done: make(chan struct{})}
	d.server = httptest.NewServer(httpx.Chain(
		http.HandlerFunc(d.serveHTTP),
		slogx.HTTPMiddleware(o.logger),
	))
	return d
}

// URL returns the endpoint URL to point a client at.
func (d *Driver) URL() string { return d.server.URL + "/" }

// Close releases any delayed responses and shuts the server down.
func (d *Driver) Close() {
	d.once.Do(func() { close(d.done) })
	d.server.Close()
}

// Reset forgets all rules and recorded requests.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rules = nil
	d.requests = nil
}

// AddRule registers a rule. The first matching rule wins. It panics if
// rule.Request cannot be represented as JSON, which is a bug in the test.
func (d *Driver) AddRule(rule Rule) {
	request, err := normalize(rule.Request)
	if err != nil {
		panic(fmt.Sprintf("authsdktest: invalid rule request: %v", err))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.rules = append(d.rules, compiledRule{Rule: rule, request: request})
}

// Requests returns the decoded JSON bodies received so far, in order.
func (d *Driver) Requests() []any {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]any, len(d.requests))
	copy(out, d.requests)
	return out
}

func (d *Driver) serveHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if r.Method != http.MethodPost {
		httpx.WriteError(w, http.StatusMethodNotAllowed, authsdk.NewError(CodeInvalidRequest, "method not allowed"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn("authsdktest: failed to read request body", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, authsdk.NewError(CodeInvalidRequest, "failed to read request body"))
		return
	}

	var request any
	if err := json.Unmarshal(body, &request); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrProtocol)
		return
	}

	rule, ok := d.match(request)
	if !ok {
		log.Warn("authsdktest: no rule for request", "body", string(body))
		httpx.WriteError(w, http.StatusNotFound, authsdk.NewError(CodeNoRule, "no rule matches the request"))
		return
	}

	if rule.Delay > 0 {
		select {
		case <-time.After(rule.Delay):
		case <-r.Context().Done():
			return
		case <-d.done:
			return
		}
	}

	status := rule.Status
	if status == 0 {
		status = http.StatusOK
	}

	if !rule.RawResponse {
		httpx.WriteJSON(w, status, rule.Response)
		return
	}

	w.WriteHeader(status)
	switch raw := rule.Response.(type) {
	case string:
		_, _ = io.WriteString(w, raw)
	case []byte:
		_, _ = w.Write(raw)
	}
}

func (d *Driver) match(request any) (Rule, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.requests = append(d.requests, request)
	for _, rule := range d.rules {
		if reflect.DeepEqual(rule.request, request) {
			return rule.Rule, true
		}
	}
	return Rule{}, false
}

// normalize round-trips v through JSON so rules written as structs or maps
// compare equal to decoded request bodies.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
