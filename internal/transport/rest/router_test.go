package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spatialboard/internal/cache"
	"spatialboard/internal/catalog"
	"spatialboard/internal/config"
	"spatialboard/internal/model"
	"spatialboard/internal/repository"
	"spatialboard/internal/service"
)

type env struct {
	srv     *httptest.Server
	repo    repository.ObservationRepo
	logPath string
}

// flakySink fails uploads whose filename starts with "bad".
type flakySink struct{}

func (flakySink) Enabled() bool { return true }

func (flakySink) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	if len(filename) >= 3 && filename[:3] == "bad" {
		return "", fmt.Errorf("refused")
	}
	return "https://files.example/" + filename, nil
}

func geminiOK(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		})
	}))
}

func newEnv(t *testing.T, ai *config.AIConfig, sink service.Sink) *env {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "observations.jsonl")
	repo := repository.NewObservationRepo(logPath)
	store := cache.NewMemorySessionStore()
	cat := catalog.New([]string{"A", "B"}, []string{"rotation errors", "mirrors the object"})
	if ai == nil {
		ai = &config.AIConfig{TimeoutMS: 1000}
	}
	if sink == nil {
		sink = service.NewDisabledSink()
	}

	reflection := service.NewReflectionService(ai)
	history := service.NewHistoryService(repo)
	sessions := service.NewSessionService(store, history, reflection, cat)
	observations := service.NewObservationService(repo, store, service.NewAttachmentService(sink), reflection, cat)

	router := NewRouter(&Container{
		SessionService:     sessions,
		ObservationService: observations,
		Catalog:            cat,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &env{srv: srv, repo: repo, logPath: logPath}
}

func (e *env) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *env) newSession(t *testing.T) *model.Session {
	t.Helper()
	var sess model.Session
	status := e.do(t, "POST", "/v1/sessions", nil, &sess)
	require.Equal(t, http.StatusCreated, status)
	return &sess
}

func minimalForm(student string) map[string]interface{} {
	return map[string]interface{}{
		"student_name":    student,
		"work_method":     string(model.WorkMethodPrintedBody),
		"challenge":       "missed top view",
		"difficulty":      3,
		"cat_dims_props":  3,
		"cat_convert_rep": 3,
		"cat_proj_trans":  3,
		"cat_3d_support":  3,
	}
}

func TestFreshStudentNoHistory(t *testing.T) {
	e := newEnv(t, nil, nil)
	sess := e.newSession(t)

	var after model.Session
	status := e.do(t, "POST", "/v1/sessions/"+sess.ID+"/student",
		model.SelectStudentRequest{StudentName: "A"}, &after)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, after.ShowHistoryBanner)
	assert.Empty(t, after.StudentContext)
}

func TestSaveMinimalRecord(t *testing.T) {
	e := newEnv(t, nil, nil)
	sess := e.newSession(t)

	var out struct {
		Record  model.Observation `json:"record"`
		Session model.Session     `json:"session"`
	}
	status := e.do(t, "POST", "/v1/sessions/"+sess.ID+"/observations", minimalForm("A"), &out)
	require.Equal(t, http.StatusCreated, status)

	assert.Equal(t, "A", out.Record.StudentName)
	assert.Equal(t, 3, out.Record.Difficulty)
	assert.Equal(t, []string{}, out.Record.Tags)
	assert.Equal(t, []string{}, out.Record.FileLinks)
	assert.Equal(t, 2, out.Session.FormInstance)

	records, err := e.repo.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Cat3DSupport)
}

func TestSaveEmptyChallengeRefused(t *testing.T) {
	e := newEnv(t, nil, nil)
	sess := e.newSession(t)

	form := minimalForm("A")
	form["challenge"] = ""
	var out map[string]string
	status := e.do(t, "POST", "/v1/sessions/"+sess.ID+"/observations", form, &out)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, out["error"], "challenge")

	records, err := e.repo.All()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryNormalization(t *testing.T) {
	e := newEnv(t, nil, nil)
	require.NoError(t, e.repo.Append(&model.Observation{
		Date: "2026-05-01", Timestamp: "2026-05-01T09:00:00Z",
		StudentName: "  a  ", WorkMethod: model.WorkMethodPrintedBody,
		Challenge: "shifted the side view", Difficulty: 3,
		CatDimsProps: 3, CatConvertRep: 3, CatProjTrans: 3, Cat3DSupport: 3,
	}))

	sess := e.newSession(t)
	var after model.Session
	status := e.do(t, "POST", "/v1/sessions/"+sess.ID+"/student",
		model.SelectStudentRequest{StudentName: "A"}, &after)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, after.ShowHistoryBanner)
	assert.Contains(t, after.StudentContext, "shifted the side view")
}

func TestPartialUploadFailure(t *testing.T) {
	e := newEnv(t, nil, flakySink{})
	sess := e.newSession(t)

	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	for k, v := range minimalForm("A") {
		switch val := v.(type) {
		case string:
			mp.WriteField(k, val)
		case int:
			mp.WriteField(k, strconv.Itoa(val))
		}
	}
	badPart, err := mp.CreateFormFile("images", "bad.png")
	require.NoError(t, err)
	badPart.Write([]byte("first"))
	goodPart, err := mp.CreateFormFile("images", "good.jpg")
	require.NoError(t, err)
	goodPart.Write([]byte("second"))
	require.NoError(t, mp.Close())

	req, err := http.NewRequest("POST", e.srv.URL+"/v1/sessions/"+sess.ID+"/observations", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Record model.Observation `json:"record"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"https://files.example/good.jpg"}, out.Record.FileLinks)
}

func TestReflectThenSave(t *testing.T) {
	gemini := geminiOK(t, "OK")
	defer gemini.Close()
	ai := &config.AIConfig{
		APIKey:    "k",
		BaseURL:   gemini.URL,
		Models:    config.GeminiModels{Reflect: "m", Chat: "m"},
		TimeoutMS: 2000,
	}
	e := newEnv(t, ai, nil)
	sess := e.newSession(t)

	status := e.do(t, "POST", "/v1/sessions/"+sess.ID+"/student",
		model.SelectStudentRequest{StudentName: "A"}, nil)
	require.Equal(t, http.StatusOK, status)

	var reflected map[string]string
	status = e.do(t, "POST", "/v1/sessions/"+sess.ID+"/reflect",
		model.ReflectRequest{Challenge: "missed top view"}, &reflected)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", reflected["feedback"])

	// Reflect persisted nothing.
	records, err := e.repo.All()
	require.NoError(t, err)
	assert.Empty(t, records)

	var mid model.Session
	status = e.do(t, "GET", "/v1/sessions/"+sess.ID, nil, &mid)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", mid.LastFeedback)

	var out struct {
		Session model.Session `json:"session"`
	}
	status = e.do(t, "POST", "/v1/sessions/"+sess.ID+"/observations", minimalForm("A"), &out)
	require.Equal(t, http.StatusCreated, status)
	assert.Empty(t, out.Session.LastFeedback)

	records, err = e.repo.All()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStudentSwitchClearsChat(t *testing.T) {
	e := newEnv(t, nil, nil)
	require.NoError(t, e.repo.Append(&model.Observation{
		Date: "2026-05-01", Timestamp: "2026-05-01T09:00:00Z",
		StudentName: "B", WorkMethod: model.WorkMethodImagination,
		Challenge: "rotated the wrong axis", Difficulty: 2,
		CatDimsProps: 2, CatConvertRep: 2, CatProjTrans: 2, Cat3DSupport: 2,
	}))
	sess := e.newSession(t)

	status := e.do(t, "POST", "/v1/sessions/"+sess.ID+"/student",
		model.SelectStudentRequest{StudentName: "A"}, nil)
	require.Equal(t, http.StatusOK, status)

	var chat struct {
		Session model.Session `json:"session"`
	}
	status = e.do(t, "POST", "/v1/sessions/"+sess.ID+"/chat",
		model.ChatRequest{Question: "how is A doing?"}, &chat)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, chat.Session.ChatHistory, 1)

	var switched model.Session
	status = e.do(t, "POST", "/v1/sessions/"+sess.ID+"/student",
		model.SelectStudentRequest{StudentName: "B"}, &switched)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, switched.ChatHistory)
	assert.Contains(t, switched.StudentContext, "rotated the wrong axis")
}

func TestUnknownSessionIs404(t *testing.T) {
	e := newEnv(t, nil, nil)
	status := e.do(t, "GET", "/v1/sessions/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCatalogEndpoint(t *testing.T) {
	e := newEnv(t, nil, nil)
	var out struct {
		Roster      []string `json:"roster"`
		Tags        []string `json:"tags"`
		WorkMethods []string `json:"work_methods"`
	}
	status := e.do(t, "GET", "/v1/catalog", nil, &out)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"A", "B"}, out.Roster)
	assert.Len(t, out.WorkMethods, 2)
}

func TestHealthAndPage(t *testing.T) {
	e := newEnv(t, nil, nil)

	resp, err := http.Get(e.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(e.srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Observation Board")
}
