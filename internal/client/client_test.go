package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ruangkampus/internal/config"
	"ruangkampus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDecodesLoans(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/loans", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"borrowerName":"budi","roomName":"Ruang Seminar A","status":"Pending"}]`))
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	loans, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, int64(1), loans[0].ID)
	assert.Equal(t, "budi", loans[0].BorrowerName)
	assert.Equal(t, models.StatusPending, loans[0].Status)
}

func TestListEmptyBodyYieldsEmptySlice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	loans, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loans)
	assert.Empty(t, loans)
}

func TestCreateSendsAuthHeadersAndBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "cli-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "cli-extra", r.Header.Get("X-Api-Extra"))

		var loan models.Loan
		require.NoError(t, json.NewDecoder(r.Body).Decode(&loan))
		loan.ID = 7
		loan.Status = models.StatusPending
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(loan)
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL, APIKey: "cli-key", Extra: "cli-extra"})
	created, err := c.Create(context.Background(), models.Loan{
		BorrowerName: "siti",
		RoomName:     "Aula Utama",
		StartTime:    time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Purpose:      "Seminar Proposal",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestUpdateTargetsLoanPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/loans/42", r.URL.Path)
		var loan models.Loan
		require.NoError(t, json.NewDecoder(r.Body).Decode(&loan))
		_ = json.NewEncoder(w).Encode(loan)
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	updated, err := c.Update(context.Background(), models.Loan{ID: 42, Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
}

func TestDelete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/loans/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	require.NoError(t, c.Delete(context.Background(), 9))
}

func TestUnexpectedStatusIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	_, err := c.List(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusInternalServerError, terr.Status)
	assert.Contains(t, terr.Op, "GET")
}

func TestConnectionRefusedIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	err := c.Delete(context.Background(), 1)
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, terr.Status)
}

func TestNoRetryOnFailure(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewLoanClient(config.ClientConfig{BaseURL: ts.URL})
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
