package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/slogx"
)

// DoRequest serialises request as JSON, POSTs it to the endpoint and resolves
// the response envelope. On success it returns the envelope's value verbatim.
// Every failure of the exchange is returned as an *Error: a server-declared
// error unchanged, or one of ErrTimeout, ErrNetworkDown, ErrProtocol and
// ErrCanceled. The request is never retried.
func (c *Client) DoRequest(ctx context.Context, request any) (json.RawMessage, error) {
	log := slogx.FromContext(ctx)

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	value, err := c.roundTrip(ctx, callCtx, req)

	log.DebugContext(ctx, "authsdk request",
		"endpoint", c.endpointURL,
		"code", ErrorCode(err),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return value, err
}

// roundTrip sends req and reads the whole response before the call context
// is released, so the timeout covers the body as well as the headers.
func (c *Client) roundTrip(ctx, callCtx context.Context, req *http.Request) (json.RawMessage, error) {
	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, callCtx, err)
	}
	defer resp.Body.Close()

	// Any status is accepted here: error pages fall out as protocol errors
	// and JSON error envelopes on 4xx/5xx are still passed through.
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, callCtx, err)
	}

	return parseEnvelope(bodyBytes)
}

// classifyTransportError maps a failure to send or read into the client's
// error taxonomy.
func classifyTransportError(ctx, callCtx context.Context, err error) *Error {
	// The caller's own context takes precedence over our timeout.
	switch ctx.Err() {
	case context.Canceled:
		return ErrCanceled.clone()
	case context.DeadlineExceeded:
		return ErrTimeout.clone()
	}

	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout.clone()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout.clone()
	}

	return ErrNetworkDown.clone()
}

// parseEnvelope resolves a response body. A non-null "error" wins over
// "value"; a body with neither, or one that is not a JSON object, is a
// protocol error.
func parseEnvelope(body []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, ErrProtocol.clone()
	}

	if raw, ok := fields["error"]; ok && !isJSONNull(raw) {
		var envErr Error
		if err := json.Unmarshal(raw, &envErr); err != nil {
			return nil, ErrProtocol.clone()
		}
		return nil, &envErr
	}

	if raw, ok := fields["value"]; ok {
		return raw, nil
	}

	return nil, ErrProtocol.clone()
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// DecodeValue unmarshals a success value into T. A value that does not fit T
// is reported as a protocol error.
func DecodeValue[T any](value json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return v, ErrProtocol.clone()
	}
	return v, nil
}
