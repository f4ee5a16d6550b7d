package manual_value

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// RepositoryStub keeps rows in memory and mimics the SQL semantics of repositoryImpl.
type RepositoryStub struct {
	mu           sync.RWMutex
	rows         map[int64]Row
	getErr       error
	updateErr    error
	updatesCount int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		rows: make(map[int64]Row),
	}
}

func (r *RepositoryStub) GetByDate(ctx context.Context, day time.Time) ([]Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.getErr != nil {
		return nil, r.getErr
	}

	result := make([]Row, 0)
	for _, row := range r.rows {
		if row.SameDay(day) {
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RowId < result[j].RowId
	})
	return result, nil
}

func (r *RepositoryStub) UpdateRow(ctx context.Context, id int64, values Values) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return 0, r.updateErr
	}
	r.updatesCount++

	if _, exists := r.rows[id]; !exists {
		return 0, nil
	}
	r.rows[id] = Row{RowId: id, Values: values}
	return 1, nil
}

// Helper methods for test setup

func (r *RepositoryStub) SetRows(rows ...Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.rows[row.RowId] = row
	}
}

func (r *RepositoryStub) Row(id int64) (Row, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	return row, ok
}

func (r *RepositoryStub) UpdatesCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatesCount
}

func (r *RepositoryStub) SetGetByDateError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getErr = err
}

func (r *RepositoryStub) SetUpdateRowError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateErr = err
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = make(map[int64]Row)
	r.getErr = nil
	r.updateErr = nil
	r.updatesCount = 0
}

var ErrRepositoryTestError = errors.New("repository test error")
