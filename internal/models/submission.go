package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var errInvalidEmail = errors.New("invalid email address")

// SubmittingProtocol is the user-facing submission payload. Identifiers are
// not resolved at submission time; that happens when an admin approves the
// submission through the save-protocol flow.
type SubmittingProtocol struct {
	SubmittedDate    string     `json:"submitted_date"`
	ExaminerSubjects [][2]int64 `json:"examiner_subjects" validate:"required,min=1"`
	Grades           []int64    `json:"grades" validate:"required,min=1"`
	Stex             int64      `json:"stex"`
	Season           int64      `json:"season"`
	Year             int64      `json:"year" validate:"required"`
}

func (s *SubmittingProtocol) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// SubmittedProtocol is the JSON side-file written next to a pending
// submission row, keyed by the same uuid.
type SubmittedProtocol struct {
	Author           string     `json:"author"`
	SubjectExaminers [][2]int64 `json:"subject_examiners"`
	Grades           []int64    `json:"grades"`
	Stex             int64      `json:"stex"`
	Year             int64      `json:"year"`
	Season           int64      `json:"season"`
	HandInDate       int64      `json:"hand_in_date"`
}

// PendingSubmission is one row of the admin submission listing.
type PendingSubmission struct {
	UUID string `json:"uuid"`
	SubmittedProtocol
}
