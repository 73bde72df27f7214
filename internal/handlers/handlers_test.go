package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzraAnimating/ProtokollDB/internal/app"
	"github.com/AzraAnimating/ProtokollDB/internal/archive"
	"github.com/AzraAnimating/ProtokollDB/internal/models"
	"github.com/AzraAnimating/ProtokollDB/internal/store/sqlite"
)

type testEnv struct {
	service *app.Service
	mux     *http.ServeMux

	adminToken string
	userToken  string
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()

	protocolStore, err := sqlite.NewSQLiteStore(filepath.Join(dir, "test.db"), "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() { protocolStore.Close() })

	fileArchive, err := archive.New(filepath.Join(dir, "protocols"), filepath.Join(dir, "submitted"))
	require.NoError(t, err)

	config := &app.Config{}
	config.Server.Bind = "127.0.0.1:0"
	config.Auth.Mode = "none"
	config.Encryption.TokenSecret = "handler-test-secret"
	config.Encryption.SessionTTLMinutes = 60

	auth, err := app.NewAuth(config)
	require.NoError(t, err)

	service := &app.Service{
		Config:  config,
		Store:   protocolStore,
		Archive: fileArchive,
		Auth:    auth,
	}

	handler := NewHandler(service)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/v1/save", handler.HandleSaveProtocol)
	mux.HandleFunc("POST /api/admin/v1/create", handler.HandleCreate)
	mux.HandleFunc("POST /api/admin/v1/addadmin", handler.HandleAddAdmin)
	mux.HandleFunc("DELETE /api/admin/v1/removeadmin", handler.HandleRemoveAdmin)
	mux.HandleFunc("GET /api/admin/v1/getadmins", handler.HandleListAdmins)
	mux.HandleFunc("GET /api/admin/v1/submissions", handler.HandleListSubmissions)
	mux.HandleFunc("GET /api/v1/identifiers", handler.HandleIdentifiers)
	mux.HandleFunc("GET /api/v1/search", handler.HandleSearch)
	mux.HandleFunc("GET /api/v1/protocol/{uuid}", handler.HandleProtocol)
	mux.HandleFunc("POST /api/v1/submit", handler.HandleSubmit)

	require.NoError(t, protocolStore.AddAdmin("admin@example.org"))

	adminToken, err := service.IssueSession("admin@example.org")
	require.NoError(t, err)
	userToken, err := service.IssueSession("student@example.org")
	require.NoError(t, err)

	return &testEnv{
		service:    service,
		mux:        mux,
		adminToken: adminToken,
		userToken:  userToken,
	}
}

func (e *testEnv) request(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, target, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)
	return w
}

func (e *testEnv) seedProtocol(t *testing.T) (string, map[string]int64) {
	ids := make(map[string]int64)
	for name, dim := range map[string]models.Dimension{
		"Müller":    models.DimensionExaminer,
		"Schmidt":   models.DimensionExaminer,
		"Chirurgie": models.DimensionSubject,
		"Innere":    models.DimensionSubject,
		"M2":        models.DimensionStex,
		"Herbst":    models.DimensionSeason,
	} {
		id, ok, err := e.service.Store.ResolveOrCreateDimension(dim, name)
		require.NoError(t, err)
		require.True(t, ok)
		ids[name] = id
	}

	upload := &models.ProtocolUpload{
		ExaminerSubjectIDs: [][2]int64{
			{ids["Müller"], ids["Chirurgie"]},
			{ids["Schmidt"], ids["Innere"]},
		},
		Grades:   []int64{3, 5},
		StexID:   ids["M2"],
		SeasonID: ids["Herbst"],
		Year:     2024,
		Text:     "Zwei Prüfer, zwei Fächer.",
	}
	protocolUUID, err := e.service.SaveProtocol(upload)
	require.NoError(t, err)
	return protocolUUID, ids
}

func TestAuthGating(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing header is a client error", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/search?years=2024", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("garbage token is a client error", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/search?years=2024", "not-a-jwt", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-admin on admin endpoint is forbidden", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/v1/getadmins", env.userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Credentials")
	})
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	protocolUUID, ids := env.seedProtocol(t)

	t.Run("no parameters are rejected for every caller", func(t *testing.T) {
		for _, token := range []string{env.userToken, env.adminToken} {
			w := env.request(t, http.MethodGet, "/api/v1/search", token, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "No Search Parameters Provided")
		}
	})

	t.Run("unparsable id list is a client error", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/search?examiners=1,x", env.userToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("single examiner returns the folded protocol", func(t *testing.T) {
		target := "/api/v1/search?examiners=" + strconv.FormatInt(ids["Müller"], 10)
		w := env.request(t, http.MethodGet, target, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var results []models.AggregatedProtocol
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, protocolUUID, results[0].UUID)
		assert.Len(t, results[0].ExaminerSubjects, 2)
	})

	t.Run("no matches is a not-found", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/search?years=1999", env.userToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Found no protocols")
	})
}

func TestCreateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates and returns an id", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/create", env.adminToken,
			map[string]string{"field": "Examiner", "display_name": "Müller"})
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]int64
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Positive(t, response["created_id"])
	})

	t.Run("repeated create resolves to the same id", func(t *testing.T) {
		first := env.request(t, http.MethodPost, "/api/admin/v1/create", env.adminToken,
			map[string]string{"field": "Subject", "display_name": "Cardiology"})
		second := env.request(t, http.MethodPost, "/api/admin/v1/create", env.adminToken,
			map[string]string{"field": "Subject", "display_name": "Cardiology"})
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("invalid characters are rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/create", env.adminToken,
			map[string]string{"field": "Examiner", "display_name": "x'; DROP TABLE examiners;--"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/create", env.adminToken,
			map[string]string{"field": "Planet", "display_name": "Mars"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSaveProtocolEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, ids := env.seedProtocol(t)

	t.Run("grade mismatch is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/save", env.adminToken, map[string]interface{}{
			"examiner_subject_ids": [][2]int64{{ids["Müller"], ids["Chirurgie"]}, {ids["Schmidt"], ids["Innere"]}},
			"grades":               []int64{1},
			"stex_id":              ids["M2"],
			"season_id":            ids["Herbst"],
			"year":                 2024,
			"text":                 "unvollständig",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("save returns the protocol uuid and stores the body", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/save", env.adminToken, map[string]interface{}{
			"examiner_subject_ids": [][2]int64{{ids["Müller"], ids["Chirurgie"]}},
			"grades":               []int64{2},
			"stex_id":              ids["M2"],
			"season_id":            ids["Herbst"],
			"year":                 2025,
			"text":                 "Sehr faire Prüfung.",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		protocolUUID := response["protocol_uuid"]
		require.True(t, models.ValidUUID(protocolUUID))

		fetch := env.request(t, http.MethodGet, "/api/v1/protocol/"+protocolUUID, env.userToken, nil)
		require.Equal(t, http.StatusOK, fetch.Code)
		assert.Equal(t, "Sehr faire Prüfung.", fetch.Body.String())
	})
}

func TestProtocolFetchValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("malformed uuid", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/protocol/abc", env.userToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown uuid", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/protocol/00000000-0000-0000-0000-000000000000", env.userToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminManagementEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("invalid email is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/addadmin", env.adminToken,
			map[string]string{"email_addr": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("add, list, remove", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/addadmin", env.adminToken,
			map[string]string{"email_addr": "second@example.org"})
		require.Equal(t, http.StatusOK, w.Code)

		list := env.request(t, http.MethodGet, "/api/admin/v1/getadmins", env.adminToken, nil)
		require.Equal(t, http.StatusOK, list.Code)
		assert.Contains(t, list.Body.String(), "second@example.org")

		remove := env.request(t, http.MethodDelete, "/api/admin/v1/removeadmin", env.adminToken,
			map[string]string{"email_addr": "second@example.org"})
		require.Equal(t, http.StatusOK, remove.Code)

		list = env.request(t, http.MethodGet, "/api/admin/v1/getadmins", env.adminToken, nil)
		assert.NotContains(t, list.Body.String(), "second@example.org")
	})
}

func TestSubmissionFlow(t *testing.T) {
	env := newTestEnv(t)
	_, ids := env.seedProtocol(t)

	submit := env.request(t, http.MethodPost, "/api/v1/submit", env.userToken, map[string]interface{}{
		"examiner_subjects": [][2]int64{{ids["Müller"], ids["Chirurgie"]}},
		"grades":            []int64{2},
		"stex":              ids["M2"],
		"season":            ids["Herbst"],
		"year":              2024,
	})
	require.Equal(t, http.StatusOK, submit.Code)

	list := env.request(t, http.MethodGet, "/api/admin/v1/submissions", env.adminToken, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var listing struct {
		Submissions []models.PendingSubmission `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listing))
	require.Len(t, listing.Submissions, 1)
	assert.Equal(t, "student@example.org", listing.Submissions[0].Author)
	submissionUUID := listing.Submissions[0].UUID

	t.Run("submissions are admin-only", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/admin/v1/submissions", env.userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("approval consumes the submission", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/admin/v1/save", env.adminToken, map[string]interface{}{
			"examiner_subject_ids": [][2]int64{{ids["Müller"], ids["Chirurgie"]}},
			"grades":               []int64{2},
			"stex_id":              ids["M2"],
			"season_id":            ids["Herbst"],
			"year":                 2024,
			"submission_id":        submissionUUID,
			"text":                 "Aus Einreichung übernommen.",
		})
		require.Equal(t, http.StatusOK, w.Code)

		list := env.request(t, http.MethodGet, "/api/admin/v1/submissions", env.adminToken, nil)
		require.Equal(t, http.StatusOK, list.Code)
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listing))
		assert.Empty(t, listing.Submissions)
	})
}

func TestIdentifiersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedProtocol(t)

	w := env.request(t, http.MethodGet, "/api/v1/identifiers", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var identifiers models.SelectionIdentifiers
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &identifiers))
	assert.Len(t, identifiers.Examiners, 2)
	assert.Len(t, identifiers.Subjects, 2)
	assert.Len(t, identifiers.Stex, 1)
	assert.Len(t, identifiers.Seasons, 1)
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = parseIDList("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseIDList("1, 2")
	assert.Error(t, err, "whitespace is not tolerated by strict parsing")

	_, err = parseIDList("1;DROP TABLE protocols")
	assert.Error(t, err)
}
