// Package mockapi is an in-memory implementation of the record REST API.
// Tests run the client against it through httptest, and the -demo flag
// serves it on a loopback port.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"recorddeck/internal/logging"
)

// Record is the stored JSON shape. phone and gender are kept as the client
// sent them, so both the bool and tag gender encodings round-trip.
type Record struct {
	ID        string          `json:"id"`
	FName     string          `json:"fname"`
	LName     string          `json:"lname"`
	Phone     json.RawMessage `json:"phone"`
	Gender    json.RawMessage `json:"gender"`
	Birthdate string          `json:"birthdate"`
}

// Server serves GET/POST on the resource path and PUT/DELETE on items.
type Server struct {
	mu       sync.Mutex
	records  []Record
	failures map[string]int
	calls    map[string]int
	delay    time.Duration
	newID    func() string

	resource string
	router   *mux.Router
	log      *logrus.Entry
}

// Option configures a Server.
type Option func(*Server)

// WithIDs replaces uuid id generation.
func WithIDs(next func() string) Option {
	return func(s *Server) { s.newID = next }
}

// WithLogger sets the request logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.log = logging.Component(l, "mockapi") }
}

// SequentialIDs returns an id generator yielding "1", "2", ...
func SequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%d", n)
	}
}

// New builds a server for resource, e.g. "/student".
func New(resource string, opts ...Option) *Server {
	s := &Server{
		failures: make(map[string]int),
		calls:    make(map[string]int),
		newID:    uuid.NewString,
		resource: "/" + strings.Trim(resource, "/"),
		log:      logging.Component(logging.Discard(), "mockapi"),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(s.middleware)
	r.HandleFunc(s.resource, s.handleList).Methods(http.MethodGet)
	r.HandleFunc(s.resource, s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc(s.resource+"/{id}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc(s.resource+"/{id}", s.handleDelete).Methods(http.MethodDelete)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Resource returns the collection path.
func (s *Server) Resource() string {
	return s.resource
}

// Seed appends records, assigning ids to those without one.
func (s *Server) Seed(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		s.records = append(s.records, rec)
	}
}

// Records returns a copy of the stored records in insertion order.
func (s *Server) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FailNext makes the next n requests with method answer 500.
func (s *Server) FailNext(method string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] += n
}

// Calls returns how many requests with method reached the server.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// SetDelay holds every response for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.mu.Lock()
		s.calls[r.Method]++
		fail := s.failures[r.Method] > 0
		if fail {
			s.failures[r.Method]--
		}
		delay := s.delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if fail {
			writeError(w, http.StatusInternalServerError, "injected failure")
		} else {
			next.ServeHTTP(w, r)
		}
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": r.Header.Get("X-Request-ID"),
			"latency":    time.Since(start).String(),
		}).Debug("served")
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Records())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	rec.ID = s.newID()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := decodeRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.ID = id

	s.mu.Lock()
	i := s.indexLocked(id)
	if i >= 0 {
		s.records[i] = rec
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	i := s.indexLocked(id)
	var removed Record
	if i >= 0 {
		removed = s.records[i]
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

func (s *Server) indexLocked(id string) int {
	for i, rec := range s.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func decodeRecord(r *http.Request) (Record, error) {
	var rec Record
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return rec, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Listen serves s on addr (e.g. "127.0.0.1:0") in the background and
// returns the base URL. Cancel ctx to stop it.
func (s *Server) Listen(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("mock api stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return "http://" + ln.Addr().String(), nil
}
