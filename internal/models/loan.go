package models

import "time"

// Loan is a room-loan request as stored and as sent over the wire.
// Field names follow the JSON contract of the /api/v1/loans collection.
type Loan struct {
	ID           int64     `json:"id"`
	BorrowerName string    `json:"borrowerName"`
	RoomID       string    `json:"roomId,omitempty"`
	RoomName     string    `json:"roomName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Purpose      string    `json:"purpose"`
	Status       string    `json:"status"` // Pending, Approved, Rejected
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// IsPending reports whether the request is still undecided.
func (l *Loan) IsPending() bool {
	return l.Status == StatusPending
}

// IsResolved reports whether the request reached a terminal status.
func (l *Loan) IsResolved() bool {
	return l.Status == StatusApproved || l.Status == StatusRejected
}

// OwnedBy reports whether the given identity created this request.
func (l *Loan) OwnedBy(name string) bool {
	return name != "" && l.BorrowerName == name
}
