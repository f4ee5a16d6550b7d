package widget

import (
	"context"
	"errors"
	"sync"
)

type ClientStub struct {
	mu        sync.RWMutex
	data      map[int]Data // widgetId -> data
	updates   []PositionUpdate
	getErr    error
	updateErr error
}

// PositionUpdate records one UpdatePosition call.
type PositionUpdate struct {
	WidgetId int
	Index    int
	Item     PosItem
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		data: make(map[int]Data),
	}
}

func (c *ClientStub) GetInit(ctx context.Context, widgetId int) (Data, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.getErr != nil {
		return Data{}, c.getErr
	}
	data, exists := c.data[widgetId]
	if !exists {
		return Data{}, ErrWidgetApi
	}
	result := data
	result.Pos = make([]PosItem, len(data.Pos))
	copy(result.Pos, data.Pos)
	return result, nil
}

func (c *ClientStub) UpdatePosition(ctx context.Context, widgetId int, index int, item PosItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.updateErr != nil {
		return c.updateErr
	}
	data, exists := c.data[widgetId]
	if !exists || index < 0 || index >= len(data.Pos) {
		return ErrWidgetApi
	}
	data.Pos[index] = item
	c.updates = append(c.updates, PositionUpdate{WidgetId: widgetId, Index: index, Item: item})
	return nil
}

// Helper methods for test setup

func (c *ClientStub) SetData(data Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := data
	stored.Pos = make([]PosItem, len(data.Pos))
	copy(stored.Pos, data.Pos)
	c.data[data.Widget] = stored
}

func (c *ClientStub) Updates() []PositionUpdate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]PositionUpdate, len(c.updates))
	copy(result, c.updates)
	return result
}

func (c *ClientStub) SetGetInitError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getErr = err
}

func (c *ClientStub) SetUpdatePositionError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateErr = err
}

var ErrClientTestError = errors.New("client test error")
