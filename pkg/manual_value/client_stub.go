package manual_value

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ClientStub serves rows from memory and records updates.
type ClientStub struct {
	mu        sync.RWMutex
	rows      map[string][]Row // date -> rows
	updates   map[int64]Values
	getErr    error
	updateErr error
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		rows:    make(map[string][]Row),
		updates: make(map[int64]Values),
	}
}

func (c *ClientStub) GetByDate(ctx context.Context, date string) ([]Row, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.getErr != nil {
		return nil, c.getErr
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrApiFailure
	}

	rows := c.rows[date]
	result := make([]Row, len(rows))
	copy(result, rows)
	return result, nil
}

func (c *ClientStub) UpdateRow(ctx context.Context, id int64, values Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.updateErr != nil {
		return c.updateErr
	}
	c.updates[id] = values
	return nil
}

// Helper methods for test setup

func (c *ClientStub) SetRows(date string, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[date] = make([]Row, len(rows))
	copy(c.rows[date], rows)
}

func (c *ClientStub) Updated(id int64) (Values, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values, ok := c.updates[id]
	return values, ok
}

func (c *ClientStub) UpdatesCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.updates)
}

func (c *ClientStub) SetGetByDateError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getErr = err
}

func (c *ClientStub) SetUpdateRowError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateErr = err
}

var ErrClientTestError = errors.New("client test error")
