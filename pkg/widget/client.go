package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrWidgetApi = errors.New("widget API request failed")

type Client interface {
	GetInit(ctx context.Context, widgetId int) (Data, error)                            // GET /api/widget/{id}/init
	UpdatePosition(ctx context.Context, widgetId int, index int, item PosItem) error // PUT /api/widget/{id}/init/{index}
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *ClientImpl {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetInit retrieves the positions of a widget
func (c *ClientImpl) GetInit(ctx context.Context, widgetId int) (Data, error) {
	url := fmt.Sprintf("%s/api/widget/%d/init", c.baseURL, widgetId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return Data{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return Data{}, fmt.Errorf("%w: %v", ErrWidgetApi, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: widget API returned non-OK status: %d", ErrWidgetApi, resp.StatusCode)
		log.Error(err)
		return Data{}, err
	}

	var data Data
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return Data{}, fmt.Errorf("%w: %v", ErrWidgetApi, err)
	}
	return data, nil
}

// UpdatePosition replaces the item at index with a full PosItem
func (c *ClientImpl) UpdatePosition(ctx context.Context, widgetId int, index int, item PosItem) error {
	body, err := json.Marshal(item)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/widget/%d/init/%d", c.baseURL, widgetId, index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return fmt.Errorf("%w: %v", ErrWidgetApi, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: widget API returned non-OK status: %d", ErrWidgetApi, resp.StatusCode)
		log.Error(err)
		return err
	}
	return nil
}
