package manual_value

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrApiFailure = errors.New("manual value API request failed")

// Client talks to the /api/manual/value routes of a running server.
type Client interface {
	GetByDate(ctx context.Context, date string) ([]Row, error) // GET /api/manual/value/{date}
	UpdateRow(ctx context.Context, id int64, values Values) error // PUT /api/manual/value/{id}
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

func (c *ClientImpl) GetByDate(ctx context.Context, date string) ([]Row, error) {
	url := fmt.Sprintf("%s/api/manual/value/%s", c.baseURL, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrApiFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var rowsDTO []RowDTO
	if err := json.NewDecoder(resp.Body).Decode(&rowsDTO); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrApiFailure, err)
	}

	rows := make([]Row, 0, len(rowsDTO))
	for _, dto := range rowsDTO {
		row, err := RowFromDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrApiFailure, dto.RowId, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *ClientImpl) UpdateRow(ctx context.Context, id int64, values Values) error {
	body, err := json.Marshal(ValuesToDTO(values))
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/manual/value/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return fmt.Errorf("%w: %v", ErrApiFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func statusError(resp *http.Response) error {
	message, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%w: status %d: %s", ErrApiFailure, resp.StatusCode, strings.TrimSpace(string(message)))
	log.Error(err)
	return err
}
