package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"recorddeck/internal/mockapi"
	"recorddeck/internal/record"
	"recorddeck/internal/telemetry"
)

func ann() record.Fields {
	return record.Fields{FirstName: "Ann", LastName: "Lee", Phone: "5551234", Gender: record.Male, Birthdate: "2000-01-01"}
}

func newTestClient(t *testing.T, opts Options) (*Client, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New("/student", mockapi.WithIDs(mockapi.SequentialIDs()))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	opts.BaseURL = ts.URL
	opts.Resource = "/student"
	if opts.Gender.Set == nil {
		opts.Gender = GenderCodec{Set: record.DefaultGenders(), AsBool: true}
	}
	c, err := New(opts)
	require.NoError(t, err)
	return c, srv
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost", Resource: "/student"})
	assert.Error(t, err, "relative base url")

	_, err = New(Options{BaseURL: "http://localhost", Resource: "/"})
	assert.Error(t, err, "missing resource")

	c, err := New(Options{BaseURL: "http://localhost:3000/api/", Resource: "Blog"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api/Blog", c.CollectionURL())
}

func TestClient_CreateListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestClient(t, Options{})

	require.NoError(t, c.Create(ctx, ann()))
	stored := srv.Records()
	require.Len(t, stored, 1)
	assert.JSONEq(t, `5551234`, string(stored[0].Phone))
	assert.JSONEq(t, `true`, string(stored[0].Gender))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, record.Record{ID: "1", Fields: ann()}, list[0])

	changed := ann()
	changed.FirstName = "Anne"
	changed.Gender = record.Female
	require.NoError(t, c.Update(ctx, "1", changed))

	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Anne", list[0].FirstName)
	assert.Equal(t, record.Female, list[0].Gender)

	require.NoError(t, c.Delete(ctx, "1"))
	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_TagEncoding(t *testing.T) {
	ctx := context.Background()
	set := append(record.DefaultGenders(), record.GenderOption{Tag: "other", Label: "Other"})
	c, srv := newTestClient(t, Options{Gender: GenderCodec{Set: set}})

	f := ann()
	f.Gender = "other"
	require.NoError(t, c.Create(ctx, f))
	assert.JSONEq(t, `"other"`, string(srv.Records()[0].Gender))

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, record.Gender("other"), list[0].Gender)
}

func TestClient_StatusErrors(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestClient(t, Options{})

	err := c.Update(ctx, "missing", ann())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, http.MethodPut, se.Method)
	assert.True(t, errors.Is(err, ErrNotFound))

	srv.FailNext(http.MethodGet, 1)
	_, err = c.List(ctx)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Error(), "injected failure")
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.Error(t, c.Update(ctx, "", ann()))
	assert.Error(t, c.Delete(ctx, ""))
}

func TestClient_LeadingZeroPhoneRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestClient(t, Options{})

	f := ann()
	f.Phone = "0555123"
	require.NoError(t, c.Create(ctx, f))
	assert.JSONEq(t, `"0555123"`, string(srv.Records()[0].Phone))

	f.FirstName = "Anne"
	require.NoError(t, c.Update(ctx, "1", f))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, record.Record{ID: "1", Fields: f}, list[0])
}

func TestClient_StatusErrorBodyKeepsRunes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("x" + strings.Repeat("é", maxErrorBody)))
	}))
	t.Cleanup(ts.Close)
	c, err := New(Options{BaseURL: ts.URL, Resource: "/student"})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, utf8.ValidString(se.Body))
	assert.True(t, strings.HasSuffix(se.Body, "…"))
	assert.LessOrEqual(t, len(se.Body), maxErrorBody+len("…"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abc", 2))
	assert.Equal(t, "a…", truncate("aé", 2), "cut backs off to a rune start")
	assert.Equal(t, "é…", truncate("éé", 3))
}

func TestClient_EncodeErrorSkipsRequest(t *testing.T) {
	c, srv := newTestClient(t, Options{})
	f := ann()
	f.Gender = "other"
	assert.Error(t, c.Create(context.Background(), f))
	assert.Equal(t, 0, srv.Calls(http.MethodPost))
}

func TestClient_HeadersAndRequestID(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := New(Options{
		BaseURL:  ts.URL,
		Resource: "/student",
		Headers:  map[string]string{"Authorization": "Bearer t"},
	})
	require.NoError(t, err)
	list, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)

	assert.Equal(t, "Bearer t", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Len(t, got.Get(RequestIDHeader), 36)
}

func TestClient_ContextCancel(t *testing.T) {
	c, srv := newTestClient(t, Options{})
	srv.SetDelay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Spans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := telemetry.NewWithProcessor(rec, "test")
	c, srv := newTestClient(t, Options{Tracer: tp.Tracer()})

	_, err := c.List(context.Background())
	require.NoError(t, err)
	srv.FailNext(http.MethodPost, 1)
	assert.Error(t, c.Create(context.Background(), ann()))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /student", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "POST /student", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	var status int64
	for _, kv := range spans[1].Attributes() {
		if kv.Key == "http.status_code" {
			status = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(http.StatusInternalServerError), status)
}
