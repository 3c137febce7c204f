package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"ruangkampus/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const loansSheet = "Loans"

// ErrRowNotFound is returned when no sheet row carries the loan id.
var ErrRowNotFound = errors.New("loan row not found")

// SheetsService mirrors the loan ledger into a Google spreadsheet. Row
// lookups go through an id-to-row cache refreshed hourly.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[int64]int
	cacheMu       sync.RWMutex
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	service := &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[int64]int),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = service.WarmUpCache(ctx)
	}()

	go func() {
		ticker := time.NewTicker(models.SheetsRowCacheTTL)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_ = service.WarmUpCache(ctx)
			cancel()
		}
	}()

	return service, nil
}

// TestConnection reads one cell to verify access to the spreadsheet.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, loansSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// ServiceAccountEmail extracts the client email from the credentials file so
// operators know whom to share the spreadsheet with.
func (s *SheetsService) ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// WarmUpCache populates the row index cache by reading the entire ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, loansSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[int64]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		var id int64
		switch v := row[0].(type) {
		case float64:
			id = int64(v)
		case string:
			fmt.Sscanf(v, "%d", &id)
		}
		if id > 0 {
			s.rowCache[id] = i + 1
		}
	}
	return nil
}

// AppendLoan adds a new loan row at the bottom of the sheet.
func (s *SheetsService) AppendLoan(ctx context.Context, loan *models.Loan) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{loanRowValues(loan)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, loansSheet+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// UpsertLoan updates the existing loan row or appends one if not found.
func (s *SheetsService) UpsertLoan(ctx context.Context, loan *models.Loan) error {
	if loan == nil {
		return fmt.Errorf("loan is nil")
	}

	rowIdx, err := s.FindLoanRow(ctx, loan.ID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return s.AppendLoan(ctx, loan)
		}
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:J%d", loansSheet, rowIdx, rowIdx)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{loanRowValues(loan)},
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// DeleteLoanRow clears the row that corresponds to loanID.
func (s *SheetsService) DeleteLoanRow(ctx context.Context, loanID int64) error {
	rowIdx, err := s.FindLoanRow(ctx, loanID)
	if err != nil {
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:J%d", loansSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Clear(s.spreadsheetID, rangeData, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err == nil {
		s.deleteCacheRow(loanID)
	}
	return err
}

// UpdateLoanStatus updates the status and updated-at cells of a loan row.
func (s *SheetsService) UpdateLoanStatus(ctx context.Context, loanID int64, status string) error {
	rowIdx, err := s.FindLoanRow(ctx, loanID)
	if err != nil {
		return err
	}

	statusRange := fmt.Sprintf("%s!H%d:H%d", loansSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return err
	}

	updatedRange := fmt.Sprintf("%s!J%d:J%d", loansSheet, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, updatedRange, &sheets.ValueRange{
		Values: [][]interface{}{{time.Now().UTC().Format(time.RFC3339)}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// FindLoanRow locates the 1-based row index for a loan id in column A.
func (s *SheetsService) FindLoanRow(ctx context.Context, loanID int64) (int, error) {
	if loanID == 0 {
		return 0, fmt.Errorf("loan id is required")
	}

	if row, ok := s.getCachedRow(loanID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, loansSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		switch v := row[0].(type) {
		case float64:
			if int64(v) == loanID {
				rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
				s.setCachedRow(loanID, rowIdx)
				return rowIdx, nil
			}
		case string:
			if v == fmt.Sprintf("%d", loanID) {
				rowIdx := i + 1
				s.setCachedRow(loanID, rowIdx)
				return rowIdx, nil
			}
		}
	}

	return 0, ErrRowNotFound
}

func (s *SheetsService) getCachedRow(id int64) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id int64, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

func (s *SheetsService) deleteCacheRow(id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.rowCache, id)
}

// ClearCache drops the row index cache.
func (s *SheetsService) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[int64]int)
}

func loanRowValues(loan *models.Loan) []interface{} {
	return []interface{}{
		loan.ID,
		loan.BorrowerName,
		loan.RoomID,
		loan.RoomName,
		loan.StartTime.UTC().Format(time.RFC3339),
		loan.EndTime.UTC().Format(time.RFC3339),
		loan.Purpose,
		loan.Status,
		loan.CreatedAt.UTC().Format(time.RFC3339),
		loan.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
