package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

const testUUID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

func newTestArchive(t *testing.T) *Archive {
	dir := t.TempDir()
	a, err := New(filepath.Join(dir, "protocols"), filepath.Join(dir, "submitted"))
	require.NoError(t, err)
	return a
}

func TestProtocolBodyRoundtrip(t *testing.T) {
	a := newTestArchive(t)

	body := []byte("Prüfer fragte nach Anatomie des Herzens.")
	require.NoError(t, a.WriteProtocol(testUUID, body))

	got, err := a.ReadProtocol(testUUID)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	uuids, err := a.ListProtocolUUIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{testUUID}, uuids)

	require.NoError(t, a.RemoveProtocol(testUUID))

	got, err = a.ReadProtocol(testUUID)
	require.NoError(t, err)
	assert.Nil(t, got, "a removed body reads as absent")
}

func TestMalformedUUIDIsRefused(t *testing.T) {
	a := newTestArchive(t)

	assert.Error(t, a.WriteProtocol("../../etc/passwd", []byte("nope")))
	_, err := a.ReadProtocol("abc")
	assert.Error(t, err)
	assert.Error(t, a.RemoveSubmission("abc"))
}

func TestSubmissionRoundtrip(t *testing.T) {
	a := newTestArchive(t)

	submission := &models.SubmittedProtocol{
		Author:           "student@example.org",
		SubjectExaminers: [][2]int64{{1, 2}},
		Grades:           []int64{3},
		Stex:             1,
		Year:             2024,
		Season:           2,
		HandInDate:       1700000000,
	}
	require.NoError(t, a.WriteSubmission(testUUID, submission))

	got, err := a.ReadSubmission(testUUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, submission, got)

	uuids, err := a.ListSubmissionUUIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{testUUID}, uuids)

	require.NoError(t, a.RemoveSubmission(testUUID))

	got, err = a.ReadSubmission(testUUID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRemoveAbsentIsNoError(t *testing.T) {
	a := newTestArchive(t)

	assert.NoError(t, a.RemoveProtocol(testUUID))
	assert.NoError(t, a.RemoveSubmission(testUUID))
}
