package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"uniform-tracker-api/internal/technician"
	"uniform-tracker-api/internal/util"
)

// UniformSets are the labels offered at the check-in desk.
var UniformSets = []string{
	"Summer Set A",
	"Summer Set B",
	"Winter Set A",
	"Winter Set B",
	"Formal Set",
}

// Config is fixed when the client is built and never mutated afterwards.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// APIError carries a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("client: base url is required")
	}
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base url %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: u, http: hc}, nil
}

func (c *Client) ListTechnicians(ctx context.Context) ([]technician.Technician, error) {
	var out []technician.Technician
	if err := c.do(ctx, http.MethodGet, "/api/technicians", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTechnician adds a technician with the barcode derived from techID.
func (c *Client) CreateTechnician(ctx context.Context, name string, techID int) (*technician.Technician, error) {
	barcode := util.BarcodeFor(techID)
	body := technician.CreateTechnicianInput{Name: &name, TechID: &techID, BarcodeValue: &barcode}

	var out technician.Technician
	if err := c.do(ctx, http.MethodPost, "/api/technicians", body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTechnician(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/api/technicians/"+strconv.FormatUint(uint64(id), 10), nil, http.StatusNoContent, nil)
}

func (c *Client) RecordCheckIn(ctx context.Context, technicianID uint, uniformSet string) (*technician.CheckIn, error) {
	body := technician.CheckInInput{UniformSet: &uniformSet}
	path := "/api/technicians/" + strconv.FormatUint(uint64(technicianID), 10) + "/checkin"

	var out technician.CheckIn
	if err := c.do(ctx, http.MethodPost, path, body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
