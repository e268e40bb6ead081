package crud

import (
	"context"
	"fmt"
	"sync"

	"recorddeck/internal/record"
)

// fakeService is an in-memory Service with injectable errors.
type fakeService struct {
	mu      sync.Mutex
	records []record.Record
	nextID  int
	errs    map[string]error
	calls   map[string]int
}

func newFakeService(seed ...record.Record) *fakeService {
	f := &fakeService{errs: map[string]error{}, calls: map[string]int{}}
	f.records = append(f.records, seed...)
	f.nextID = len(seed)
	return f
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

func (f *fakeService) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeService) List(ctx context.Context) ([]record.Record, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]record.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeService) Create(ctx context.Context, fields record.Fields) error {
	if err := f.enter("create"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.records = append(f.records, record.Record{ID: fmt.Sprintf("%d", f.nextID), Fields: fields})
	return nil
}

func (f *fakeService) Update(ctx context.Context, id string, fields record.Fields) error {
	if err := f.enter("update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Fields = fields
			return nil
		}
	}
	return fmt.Errorf("no record %s", id)
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no record %s", id)
}

func ann() record.Fields {
	return record.Fields{FirstName: "Ann", LastName: "Lee", Phone: "5551234", Gender: record.Male, Birthdate: "2000-01-01"}
}

func bob() record.Fields {
	return record.Fields{FirstName: "Bob", LastName: "Stone", Phone: "5559876", Gender: record.Female, Birthdate: "1998-07-14"}
}
