package analyze

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svatrous/instept-backend/internal/i18n"
	"github.com/svatrous/instept-backend/internal/pipeline"
)

type fakeQueue struct {
	err      error
	language string
	token    string
}

func (q *fakeQueue) Enqueue(_ string, language string, notifyToken string) (*pipeline.Task, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.language = language
	q.token = notifyToken
	return &pipeline.Task{ID: "task-1", Status: pipeline.StatusPending}, nil
}

func post(t *testing.T, h *Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	mw := i18n.Middleware()(http.HandlerFunc(h.Analyze))
	mw.ServeHTTP(w, r)
	return w
}

func TestAnalyze(t *testing.T) {
	q := &fakeQueue{}
	h := NewHandler(q, "en")

	w := post(t, h, `{"url":"https://platform.example/reel/XYZ","language":"fr","notify_token":"tok"}`, nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	var res analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "processing", res.Status)
	assert.Equal(t, "task-1", res.TaskID)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, "fr", q.language)
	assert.Equal(t, "tok", q.token)
}

func TestAnalyze_LanguageFromHeader(t *testing.T) {
	q := &fakeQueue{}
	h := NewHandler(q, "en")

	w := post(t, h, `{"url":"https://platform.example/reel/XYZ"}`, map[string]string{"Accept-Language": "ru-RU,ru;q=0.9"})

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "ru", q.language, "explicit language beats header, header beats default")
}

func TestAnalyze_LanguageDefault(t *testing.T) {
	q := &fakeQueue{}
	h := NewHandler(q, "en")

	w := post(t, h, `{"url":"https://platform.example/reel/XYZ"}`, nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "en", q.language)
}

func TestAnalyze_MissingURL(t *testing.T) {
	h := NewHandler(&fakeQueue{}, "en")

	w := post(t, h, `{"language":"en"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeQueue{}, "en")

	w := post(t, h, `{not json`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_QueueFull(t *testing.T) {
	h := NewHandler(&fakeQueue{err: pipeline.ErrQueueFull}, "en")

	w := post(t, h, `{"url":"https://platform.example/reel/XYZ"}`, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
