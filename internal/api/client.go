// Package api is the REST client for the record collection. The server
// owns persistence and id assignment; this package only moves JSON.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"recorddeck/internal/logging"
	"recorddeck/internal/record"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// maxErrorBody caps how much of an error body is kept in StatusError.
const maxErrorBody = 256

// RequestIDHeader carries a per-request uuid.
const RequestIDHeader = "X-Request-ID"

// Options configures a Client.
type Options struct {
	BaseURL    string
	Resource   string // collection path, e.g. "/student"
	Headers    map[string]string
	Timeout    time.Duration // applied when HTTPClient is nil
	Gender     GenderCodec
	HTTPClient *http.Client
	Tracer     oteltrace.Tracer
	Logger     logrus.FieldLogger
}

// Client talks to one collection endpoint.
type Client struct {
	collection *url.URL
	headers    http.Header
	http       *http.Client
	codec      GenderCodec
	tracer     oteltrace.Tracer
	log        *logrus.Entry
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	resource := "/" + strings.Trim(opts.Resource, "/")
	if resource == "/" {
		return nil, fmt.Errorf("resource path is required")
	}
	collection := base.JoinPath(resource)

	headers := make(http.Header, len(opts.Headers)+2)
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}
	headers.Set("Accept", "application/json")

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	var logger logrus.FieldLogger = opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		collection: collection,
		headers:    headers,
		http:       hc,
		codec:      opts.Gender,
		tracer:     tracer,
		log:        logging.Component(logger, "api"),
	}, nil
}

// CollectionURL returns the GET/POST endpoint.
func (c *Client) CollectionURL() string {
	return c.collection.String()
}

func (c *Client) itemURL(id string) string {
	return c.collection.JoinPath(url.PathEscape(id)).String()
}

// List fetches the full collection.
func (c *Client) List(ctx context.Context) ([]record.Record, error) {
	body, err := c.do(ctx, http.MethodGet, c.CollectionURL(), nil)
	if err != nil {
		return nil, err
	}
	return c.codec.DecodeRecords(body)
}

// Create posts a new record; the server assigns the id.
func (c *Client) Create(ctx context.Context, f record.Fields) error {
	payload, err := c.codec.EncodeFields(f)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, c.CollectionURL(), payload)
	return err
}

// Update replaces the record with the given id.
func (c *Client) Update(ctx context.Context, id string, f record.Fields) error {
	if id == "" {
		return fmt.Errorf("update: empty id")
	}
	payload, err := c.codec.EncodeFields(f)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, c.itemURL(id), payload)
	return err
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete: empty id")
	}
	_, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) (body []byte, err error) {
	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, method+" "+c.collection.Path,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
			attribute.String("recorddeck.request_id", requestID),
		),
	)
	start := time.Now()
	status := 0
	defer func() {
		fields := logrus.Fields{
			"method":     method,
			"url":        target,
			"status":     status,
			"request_id": requestID,
			"duration":   time.Since(start).String(),
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.log.WithFields(fields).WithError(err).Debug("request failed")
		} else {
			c.log.WithFields(fields).Debug("request done")
		}
		span.End()
	}()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header = c.headers.Clone()
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", status))

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, target, err)
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: status,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}
	return body, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
