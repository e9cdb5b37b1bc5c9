// Package api is the HTTP client for the confide backend.
//
// Every call takes a context, is bounded by the client timeout, and is traced
// through an otelhttp transport. Failures are returned as *errors.Error with a
// Kind the UI maps onto its notices.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	pkgerrors "github.com/zhubert/confide/internal/errors"
	"github.com/zhubert/confide/internal/logger"
)

// Endpoint names used for metrics and span attributes.
const (
	EndpointAsk           = "ask"
	EndpointNewSession    = "get_session"
	EndpointConversations = "conversations"
	EndpointHistory       = "history"
	EndpointDelete        = "delete"
)

// maxErrorBody caps how much of a failed response is kept for the log.
const maxErrorBody = 4096

// Recorder receives one observation per backend request.
type Recorder interface {
	RecordRequest(ctx context.Context, endpoint, outcome string, elapsed time.Duration)
}

// Client talks to the backend REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	tracer   trace.Tracer
	recorder Recorder
	log      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default otelhttp-instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTracer sets the tracer used for the per-call parent span.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		tracer:  tracenoop.NewTracerProvider().Tracer("confide/api"),
		log:     logger.WithComponent("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewSession asks the server to create a conversation and returns its id.
func (c *Client) NewSession(ctx context.Context) (string, error) {
	const op = pkgerrors.Op("api.NewSession")

	var resp SessionResponse
	if _, err := c.roundTrip(ctx, op, EndpointNewSession, http.MethodGet, "/api/get_session", nil, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", pkgerrors.ServerRejected(op, resp.Error)
	}
	if resp.SessionID == "" {
		return "", pkgerrors.E(op, pkgerrors.KindDecode, "response carried no session_id")
	}
	return resp.SessionID, nil
}

// ListConversations returns the server's conversation listing.
// success=false or a missing conversations array is an error.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	const op = pkgerrors.Op("api.ListConversations")

	var resp ConversationsResponse
	if _, err := c.roundTrip(ctx, op, EndpointConversations, http.MethodGet, "/api/conversations", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, pkgerrors.ServerRejected(op, resp.Error)
	}
	if resp.Conversations == nil {
		return nil, pkgerrors.E(op, pkgerrors.KindDecode, "response carried no conversations array")
	}
	return *resp.Conversations, nil
}

// History returns the messages of conversation id.
// A success=false answer is reported as KindNotFound.
func (c *Client) History(ctx context.Context, id string) ([]Message, error) {
	const op = pkgerrors.Op("api.History")

	var resp HistoryResponse
	if _, err := c.roundTrip(ctx, op, EndpointHistory, http.MethodGet, conversationPath(id), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, pkgerrors.ConversationNotFound(id)
	}
	if resp.History == nil {
		return []Message{}, nil
	}
	return resp.History, nil
}

// DeleteConversation removes conversation id on the server.
// The server's error text is carried in the returned error when present.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	const op = pkgerrors.Op("api.DeleteConversation")

	var resp StatusResponse
	if _, err := c.roundTrip(ctx, op, EndpointDelete, http.MethodDelete, conversationPath(id), nil, &resp); err != nil {
		if resp.Error != "" && pkgerrors.Is(err, pkgerrors.KindServer) {
			return pkgerrors.ServerRejected(op, resp.Error)
		}
		return err
	}
	if !resp.Success {
		return pkgerrors.ServerRejected(op, resp.Error)
	}
	return nil
}

// Ask sends a question in session sessionID and returns the assistant's answer.
// Any non-2xx status is an error regardless of the body.
func (c *Client) Ask(ctx context.Context, question, sessionID string) (string, error) {
	const op = pkgerrors.Op("api.Ask")

	var resp AskResponse
	req := AskRequest{Question: question, SessionID: sessionID}
	if _, err := c.roundTrip(ctx, op, EndpointAsk, http.MethodPost, "/api/ask", req, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func conversationPath(id string) string {
	return "/api/conversations/" + url.PathEscape(id)
}

// roundTrip performs one JSON request. A 2xx body is decoded into out. A
// non-2xx answer yields an UnexpectedStatus error; out is still filled on a
// best-effort basis so callers can surface the server's error text.
func (c *Client) roundTrip(ctx context.Context, op pkgerrors.Op, endpoint, method, path string, in, out any) (status int, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("confide.endpoint", endpoint)))
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if c.recorder != nil {
			c.recorder.RecordRequest(ctx, endpoint, outcome, time.Since(start))
		}
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, pkgerrors.E(op, pkgerrors.KindInvalid, "failed to encode request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, pkgerrors.E(op, pkgerrors.KindInvalid, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, pkgerrors.E(op, pkgerrors.KindTimeout, "request timed out", err)
		}
		return 0, pkgerrors.RequestFailed(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("unexpected status", "method", method, "path", path, "status", resp.StatusCode, "body", string(raw))
		_ = json.Unmarshal(raw, out)
		return resp.StatusCode, pkgerrors.UnexpectedStatus(op, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, pkgerrors.DecodeFailed(op, err)
	}

	c.log.Debug("response", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp.StatusCode, nil
}
