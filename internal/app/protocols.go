package app

import (
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/metrics"
	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

// SaveProtocol writes the metadata rows first and the body file second, so a
// row without a body can only exist for the moment between commit and file
// write. If the body write fails the rows are taken back out.
func (s *Service) SaveProtocol(upload *models.ProtocolUpload) (string, error) {
	protocolUUID, err := s.Store.SaveProtocol(
		upload.ExaminerSubjectIDs,
		upload.StexID,
		upload.SeasonID,
		upload.Year,
		upload.Grades,
	)
	if err != nil {
		return "", err
	}

	if err := s.Archive.WriteProtocol(protocolUUID, []byte(upload.Text)); err != nil {
		if _, removeErr := s.Store.RemoveProtocol(protocolUUID); removeErr != nil {
			logger.Error.Printf("Failed to remove protocol %s after body write failure: %v", protocolUUID, removeErr)
		}
		return "", err
	}

	if upload.SubmissionID != nil {
		s.discardSubmission(*upload.SubmissionID)
	}

	metrics.ProtocolsSaved.Inc()
	return protocolUUID, nil
}

// discardSubmission drops an approved pending submission from both stores.
// Leftovers are logged, not fatal: the protocol itself is already saved.
func (s *Service) discardSubmission(uuid string) {
	if err := s.Store.RemoveSubmission(uuid); err != nil {
		logger.Error.Printf("Failed to remove submission row %s: %v", uuid, err)
	}
	if err := s.Archive.RemoveSubmission(uuid); err != nil {
		logger.Error.Printf("Failed to remove submission file %s: %v", uuid, err)
	}
}

// SubmitProtocol stores a pending user submission: a bare uuid row plus a
// JSON side-file with the actual content, awaiting admin review.
func (s *Service) SubmitProtocol(author string, submission *models.SubmittingProtocol) (string, error) {
	submissionUUID, err := s.Store.CreateSubmission()
	if err != nil {
		return "", err
	}

	pending := &models.SubmittedProtocol{
		Author:           author,
		SubjectExaminers: submission.ExaminerSubjects,
		Grades:           submission.Grades,
		Stex:             submission.Stex,
		Year:             submission.Year,
		Season:           submission.Season,
		HandInDate:       time.Now().Unix(),
	}
	if err := s.Archive.WriteSubmission(submissionUUID, pending); err != nil {
		return "", fmt.Errorf("failed to write submission to disk: %w", err)
	}

	return submissionUUID, nil
}

// ListPendingSubmissions joins the submission rows with their side-files.
// Rows whose side-file went missing are reported with uuid only.
func (s *Service) ListPendingSubmissions() ([]models.PendingSubmission, error) {
	uuids, err := s.Store.ListSubmissions()
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingSubmission, 0, len(uuids))
	for _, id := range uuids {
		entry := models.PendingSubmission{UUID: id}
		submission, err := s.Archive.ReadSubmission(id)
		if err != nil {
			logger.Error.Printf("Failed to read submission %s: %v", id, err)
		}
		if submission != nil {
			entry.SubmittedProtocol = *submission
		}
		pending = append(pending, entry)
	}
	return pending, nil
}
