package validation

import (
	"errors"
	"strings"
	"time"

	"ruangkampus/internal/catalog"
	"ruangkampus/internal/models"
)

var (
	// ErrInvalidRoom means the room name is not in the catalog.
	ErrInvalidRoom = errors.New("room name is not in the catalog")
	// ErrMissingDates means start or end time is absent.
	ErrMissingDates = errors.New("start and end time are required")
	// ErrInvalidRange means the end time is not after the start time.
	ErrInvalidRange = errors.New("end time must be after start time")
	// ErrMissingField means borrower name or purpose is empty.
	ErrMissingField = errors.New("borrower name and purpose are required")
	// ErrPastStart means a new request starts in the past.
	ErrPastStart = errors.New("start time must not be in the past")
)

// Validate checks a candidate request before submission. Checks run in a
// fixed order and stop at the first failure; no I/O happens here. The past
// check applies only to new requests (ID == 0): an edit may keep a window
// that has meanwhile begun.
func Validate(candidate models.Loan, cat *catalog.Catalog, now time.Time) error {
	if !cat.Contains(candidate.RoomName) {
		return ErrInvalidRoom
	}
	if candidate.StartTime.IsZero() || candidate.EndTime.IsZero() {
		return ErrMissingDates
	}
	if !candidate.EndTime.After(candidate.StartTime) {
		return ErrInvalidRange
	}
	if strings.TrimSpace(candidate.BorrowerName) == "" || strings.TrimSpace(candidate.Purpose) == "" {
		return ErrMissingField
	}
	if candidate.ID == 0 && candidate.StartTime.Before(now) {
		return ErrPastStart
	}
	return nil
}

// Message maps a validation error to the wording the form shows, in the
// requested display language.
func Message(err error, locale string) string {
	en := locale == "en"
	switch {
	case errors.Is(err, ErrInvalidRoom):
		if en {
			return "Invalid room name. Please select from the dropdown list."
		}
		return "Nama ruangan tidak valid. Mohon pilih dari daftar dropdown."
	case errors.Is(err, ErrMissingDates):
		if en {
			return "Please complete the Start and End Date."
		}
		return "Mohon lengkapi Tanggal Mulai dan Selesai."
	case errors.Is(err, ErrInvalidRange):
		if en {
			return "End time must be after the start time."
		}
		return "Waktu selesai harus lebih akhir dari waktu mulai."
	case errors.Is(err, ErrMissingField):
		if en {
			return "Please complete all required fields."
		}
		return "Mohon lengkapi semua kolom yang wajib diisi."
	case errors.Is(err, ErrPastStart):
		if en {
			return "Start time must not be in the past."
		}
		return "Waktu mulai tidak boleh di masa lalu."
	case err != nil:
		if en {
			return "The request could not be validated."
		}
		return "Pengajuan tidak dapat divalidasi."
	default:
		return ""
	}
}
