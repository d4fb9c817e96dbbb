package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "simple tag",
			header: "fr",
			want:   "fr",
		},
		{
			name:   "region stripped",
			header: "en-US",
			want:   "en",
		},
		{
			name:   "first of list",
			header: "ru-RU,ru;q=0.9,en;q=0.8",
			want:   "ru",
		},
		{
			name:   "quality on first tag",
			header: "de;q=0.7",
			want:   "de",
		},
		{
			name:   "uppercased tag",
			header: "JA",
			want:   "ja",
		},
		{
			name:   "wildcard ignored",
			header: "*",
			want:   "",
		},
		{
			name:   "missing header",
			header: "",
			want:   "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			h := Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = UserLanguage(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Accept-Language", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)

			assert.Equal(t, tc.want, got)
		})
	}
}
