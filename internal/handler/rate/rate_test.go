package rate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svatrous/instept-backend/internal/recipedb"
)

type fakeStore struct {
	err     error
	summary *recipedb.RatingSummary
	gotID   string
	gotStar int
}

func (s *fakeStore) UpdateRating(_ context.Context, id string, rating int) (*recipedb.RatingSummary, error) {
	s.gotID = id
	s.gotStar = rating
	return s.summary, s.err
}

func post(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/rate", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Rate(w, r)
	return w
}

func TestRate(t *testing.T) {
	s := &fakeStore{summary: &recipedb.RatingSummary{RecipeID: "abc", Rating: 4.2, ReviewsCount: 121}}
	h := NewHandler(s)

	w := post(t, h, `{"recipe_id":"abc","rating":5}`)

	require.Equal(t, http.StatusOK, w.Code)
	var res recipedb.RatingSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "abc", res.RecipeID)
	assert.InDelta(t, 4.2, res.Rating, 0.001)
	assert.Equal(t, 121, res.ReviewsCount)
	assert.Equal(t, "abc", s.gotID)
	assert.Equal(t, 5, s.gotStar)
}

func TestRate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing recipe_id", body: `{"rating":3}`},
		{name: "rating too low", body: `{"recipe_id":"abc","rating":0}`},
		{name: "rating too high", body: `{"recipe_id":"abc","rating":6}`},
		{name: "invalid body", body: `{`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&fakeStore{})

			w := post(t, h, tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRate_NotFound(t *testing.T) {
	h := NewHandler(&fakeStore{})

	w := post(t, h, `{"recipe_id":"missing","rating":3}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRate_StoreUnavailable(t *testing.T) {
	h := NewHandler(&fakeStore{err: recipedb.ErrUnavailable})

	w := post(t, h, `{"recipe_id":"abc","rating":3}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
