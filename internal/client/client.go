package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ruangkampus/internal/config"
	"ruangkampus/internal/models"
)

// TransportError is returned for any failure talking to the loan collection:
// connection problems, non-2xx responses, undecodable bodies. Status is zero
// when no HTTP response was received.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("loan api: %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("loan api: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LoanClient talks to the loan collection REST resource. It issues exactly
// one request per call and never retries; retry policy belongs to the caller.
type LoanClient struct {
	baseURL string
	apiKey  string
	extra   string
	http    *http.Client
}

func NewLoanClient(cfg config.ClientConfig) *LoanClient {
	return &LoanClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		extra:   cfg.Extra,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *LoanClient) List(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	if err := c.do(ctx, http.MethodGet, "/api/v1/loans", nil, &loans, http.StatusOK); err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []models.Loan{}
	}
	return loans, nil
}

func (c *LoanClient) Create(ctx context.Context, loan models.Loan) (*models.Loan, error) {
	var created models.Loan
	if err := c.do(ctx, http.MethodPost, "/api/v1/loans", &loan, &created, http.StatusCreated); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *LoanClient) Update(ctx context.Context, loan models.Loan) (*models.Loan, error) {
	var updated models.Loan
	path := fmt.Sprintf("/api/v1/loans/%d", loan.ID)
	if err := c.do(ctx, http.MethodPut, path, &loan, &updated, http.StatusOK); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *LoanClient) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/loans/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

func (c *LoanClient) do(ctx context.Context, method, path string, in, out interface{}, wantStatus int) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if c.extra != "" {
		req.Header.Set("X-Api-Extra", c.extra)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}
	return nil
}
