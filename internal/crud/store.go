package crud

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"recorddeck/internal/logging"
	"recorddeck/internal/record"
)

// ErrClosed is returned once the owning view has been torn down.
var ErrClosed = errors.New("session closed")

// Lister reads the full remote collection.
type Lister interface {
	List(ctx context.Context) ([]record.Record, error)
}

// Ticket identifies one refresh request. Seq increases with every request.
type Ticket struct {
	Seq uint64
}

// Snapshot is the outcome of loading a ticket.
type Snapshot struct {
	Ticket  Ticket
	Records []record.Record
	Err     error
}

// Store mirrors the remote collection. Records are only ever replaced as a
// whole, and only by the snapshot of the newest request seen so far.
type Store struct {
	lister Lister
	log    *logrus.Entry

	mu        sync.RWMutex
	records   []record.Record
	requested uint64
	applied   uint64
	settled   uint64
	lastErr   error
	closed    bool
}

// NewStore returns an empty store.
func NewStore(l Lister, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		lister:  l,
		log:     logging.Component(logger, "store"),
		records: []record.Record{},
	}
}

// Request registers a refresh request.
func (s *Store) Request() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requested++
	return Ticket{Seq: s.requested}
}

// Load fetches the collection for t. It does not touch the store's state
// and is safe to call off the UI loop.
func (s *Store) Load(ctx context.Context, t Ticket) Snapshot {
	recs, err := s.lister.List(ctx)
	return Snapshot{Ticket: t, Records: recs, Err: err}
}

// Apply installs snap if it succeeded, is newer than anything applied so
// far, and the store is open. Failed snapshots leave the records as they
// were. Reports whether the records changed.
func (s *Store) Apply(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.WithField("seq", snap.Ticket.Seq).Debug("dropping snapshot after close")
		return false
	}
	if snap.Ticket.Seq <= s.applied {
		s.log.WithFields(logrus.Fields{
			"seq":     snap.Ticket.Seq,
			"applied": s.applied,
		}).Debug("dropping stale snapshot")
		return false
	}
	if snap.Ticket.Seq > s.settled {
		s.settled = snap.Ticket.Seq
	}
	if snap.Err != nil {
		s.lastErr = snap.Err
		s.log.WithError(snap.Err).WithField("seq", snap.Ticket.Seq).Warn("refresh failed, keeping previous records")
		return false
	}

	recs := make([]record.Record, len(snap.Records))
	copy(recs, snap.Records)
	s.records = recs
	s.applied = snap.Ticket.Seq
	s.lastErr = nil
	s.log.WithFields(logrus.Fields{
		"seq":   snap.Ticket.Seq,
		"count": len(recs),
	}).Debug("records replaced")
	return true
}

// Refresh requests, loads and applies in one call.
func (s *Store) Refresh(ctx context.Context) error {
	if s.Closed() {
		return ErrClosed
	}
	snap := s.Load(ctx, s.Request())
	s.Apply(snap)
	return snap.Err
}

// Records returns a copy of the current records.
func (s *Store) Records() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Find returns the record with id.
func (s *Store) Find(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return record.FindByID(s.records, id)
}

// LastErr returns the error of the most recent failed refresh, cleared by
// the next successful one.
func (s *Store) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Loaded reports whether any snapshot has been applied.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied > 0
}

// Pending reports whether the newest requested refresh has not come back yet.
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requested > s.settled
}

// Close marks the store as unmounted; later snapshots are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
