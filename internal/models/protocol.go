package models

import (
	"github.com/go-playground/validator/v10"
)

// ProtocolUpload is the admin save-protocol payload. Pairs come in as
// [examiner_id, subject_id] tuples; grades[i] belongs to pair i.
type ProtocolUpload struct {
	ExaminerSubjectIDs [][2]int64 `json:"examiner_subject_ids" validate:"required,min=1"`
	Grades             []int64    `json:"grades" validate:"required,min=1"`
	StexID             int64      `json:"stex_id"`
	SeasonID           int64      `json:"season_id"`
	Year               int64      `json:"year" validate:"required"`
	SubmissionID       *string    `json:"submission_id,omitempty"`
	Text               string     `json:"text" validate:"required"`
}

func (p *ProtocolUpload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ExaminerSubject is one resolved examiner/subject pairing of a protocol.
type ExaminerSubject struct {
	Examiner string `json:"examiner"`
	Subject  string `json:"subject"`
}

// AggregatedProtocol is one protocol folded out of the relation join: a
// single document may span multiple relations, so every field is a
// de-duplicated union over all of the protocol's rows.
type AggregatedProtocol struct {
	UUID             string            `json:"uuid"`
	ExaminerSubjects []ExaminerSubject `json:"examiner_subjects"`
	Stex             []string          `json:"stex"`
	Seasons          []string          `json:"season"`
	Years            []int64           `json:"years"`
}
