package models

import "time"

// Draft holds the compose-form fields of one user while a request is being
// put together. It is what the session repository persists between steps, so
// every field must round-trip through JSON.
type Draft struct {
	Owner     string     `json:"owner"`
	RoomName  string     `json:"room_name"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Purpose   string     `json:"purpose"`

	// EditingID is the id of the record being edited in place, 0 for a new
	// request.
	EditingID int64 `json:"editing_id,omitempty"`

	// Confirming is set once validation passed and the workflow is waiting
	// for the explicit confirmation gate.
	Confirming bool      `json:"confirming,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Editing reports whether the draft targets an existing record.
func (d *Draft) Editing() bool {
	return d.EditingID != 0
}

// Loan materializes the draft into a candidate record. Status is left empty;
// the workflow controller pins it before submission.
func (d *Draft) Loan() Loan {
	loan := Loan{
		BorrowerName: d.Owner,
		RoomName:     d.RoomName,
		Purpose:      d.Purpose,
	}
	if d.StartTime != nil {
		loan.StartTime = *d.StartTime
	}
	if d.EndTime != nil {
		loan.EndTime = *d.EndTime
	}
	if d.EditingID != 0 {
		loan.ID = d.EditingID
	}
	return loan
}

// Reset clears everything except the owner identity.
func (d *Draft) Reset() {
	*d = Draft{Owner: d.Owner, UpdatedAt: time.Now()}
}
