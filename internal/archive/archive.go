// Package archive owns the filesystem half of the split protocol storage:
// body files and pending-submission side-files, both addressed purely by
// uuid. The relational store and this directory are correlated by uuid only;
// row-presence is authoritative and cmd/reconcile cleans up strays.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

type Archive struct {
	protocolDir   string
	submissionDir string
}

func New(protocolDir, submissionDir string) (*Archive, error) {
	if err := os.MkdirAll(protocolDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create protocol directory: %w", err)
	}
	if err := os.MkdirAll(submissionDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create submission directory: %w", err)
	}
	return &Archive{
		protocolDir:   protocolDir,
		submissionDir: submissionDir,
	}, nil
}

func (a *Archive) protocolPath(uuid string) string {
	return filepath.Join(a.protocolDir, uuid)
}

func (a *Archive) submissionPath(uuid string) string {
	return filepath.Join(a.submissionDir, uuid+".json")
}

func (a *Archive) WriteProtocol(uuid string, body []byte) error {
	if !models.ValidUUID(uuid) {
		return fmt.Errorf("malformed protocol uuid")
	}
	if err := os.WriteFile(a.protocolPath(uuid), body, 0o644); err != nil {
		return fmt.Errorf("failed to write protocol body: %w", err)
	}
	return nil
}

// ReadProtocol returns the body bytes, or nil without error when no body file
// exists for the uuid.
func (a *Archive) ReadProtocol(uuid string) ([]byte, error) {
	if !models.ValidUUID(uuid) {
		return nil, fmt.Errorf("malformed protocol uuid")
	}
	body, err := os.ReadFile(a.protocolPath(uuid))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol body: %w", err)
	}
	return body, nil
}

func (a *Archive) RemoveProtocol(uuid string) error {
	if !models.ValidUUID(uuid) {
		return fmt.Errorf("malformed protocol uuid")
	}
	if err := os.Remove(a.protocolPath(uuid)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove protocol body: %w", err)
	}
	return nil
}

// ListProtocolUUIDs reports every uuid that has a body file on disk. Files
// whose names are not uuid-shaped are ignored.
func (a *Archive) ListProtocolUUIDs() ([]string, error) {
	entries, err := os.ReadDir(a.protocolDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol directory: %w", err)
	}

	var uuids []string
	for _, entry := range entries {
		if entry.IsDir() || !models.ValidUUID(entry.Name()) {
			continue
		}
		uuids = append(uuids, entry.Name())
	}
	return uuids, nil
}

func (a *Archive) WriteSubmission(uuid string, submission *models.SubmittedProtocol) error {
	if !models.ValidUUID(uuid) {
		return fmt.Errorf("malformed submission uuid")
	}
	data, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to serialize submission: %w", err)
	}
	if err := os.WriteFile(a.submissionPath(uuid), data, 0o644); err != nil {
		return fmt.Errorf("failed to write submission: %w", err)
	}
	return nil
}

// ReadSubmission returns nil without error when no side-file exists.
func (a *Archive) ReadSubmission(uuid string) (*models.SubmittedProtocol, error) {
	if !models.ValidUUID(uuid) {
		return nil, fmt.Errorf("malformed submission uuid")
	}
	data, err := os.ReadFile(a.submissionPath(uuid))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}

	var submission models.SubmittedProtocol
	if err := json.Unmarshal(data, &submission); err != nil {
		return nil, fmt.Errorf("failed to parse submission %s: %w", uuid, err)
	}
	return &submission, nil
}

func (a *Archive) RemoveSubmission(uuid string) error {
	if !models.ValidUUID(uuid) {
		return fmt.Errorf("malformed submission uuid")
	}
	if err := os.Remove(a.submissionPath(uuid)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove submission: %w", err)
	}
	return nil
}

// ListSubmissionUUIDs reports every uuid with a side-file on disk.
func (a *Archive) ListSubmissionUUIDs() ([]string, error) {
	entries, err := os.ReadDir(a.submissionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission directory: %w", err)
	}

	var uuids []string
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		if entry.IsDir() || name == entry.Name() || !models.ValidUUID(name) {
			continue
		}
		uuids = append(uuids, name)
	}
	return uuids, nil
}
