package ui

import (
	"context"
	"fmt"
	"sync"

	"recorddeck/internal/record"
)

// fakeService is an in-memory crud.Service.
type fakeService struct {
	mu      sync.Mutex
	records []record.Record
	nextID  int
	errs    map[string]error
	calls   map[string]int
}

func newFakeService(seed ...record.Record) *fakeService {
	return &fakeService{
		records: append([]record.Record{}, seed...),
		nextID:  len(seed),
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeService) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeService) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeService) snapshot() []record.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]record.Record{}, f.records...)
}

func (f *fakeService) List(ctx context.Context) ([]record.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if err := f.errs["list"]; err != nil {
		return nil, err
	}
	return append([]record.Record{}, f.records...), nil
}

func (f *fakeService) Create(ctx context.Context, fields record.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if err := f.errs["create"]; err != nil {
		return err
	}
	f.nextID++
	f.records = append(f.records, record.Record{ID: fmt.Sprint(f.nextID), Fields: fields})
	return nil
}

func (f *fakeService) Update(ctx context.Context, id string, fields record.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if err := f.errs["update"]; err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Fields = fields
			return nil
		}
	}
	return fmt.Errorf("no record %s", id)
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if err := f.errs["delete"]; err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no record %s", id)
}
