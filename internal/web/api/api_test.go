package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdonalds/cookbook/internal/cookbook"
	"github.com/devdonalds/cookbook/internal/web/cache"
)

func newTestAPI(t *testing.T, opts ...func(*Options)) http.Handler {
	t.Helper()

	options := Options{
		Registry:     cookbook.NewRegistry(),
		SummaryCache: cache.NewMemoryCache(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return New(options).Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestParseEndpoint(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/parse", `{"input": "Riz_au_lait 2000!!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Riz Au Lait", body.Msg)
}

func TestParseEndpoint_NothingAlphabetic(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/parse", `{"input": "123!!"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEntry_Success(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateEntry_RejectionCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing name", `{"type": "ingredient", "cookTime": 5}`, "invalid_name"},
		{"bad type", `{"type": "pan", "name": "egg"}`, "invalid_type"},
		{"negative cookTime", `{"type": "ingredient", "name": "egg", "cookTime": -1}`, "invalid_ingredient"},
		{"fractional cookTime", `{"type": "ingredient", "name": "egg", "cookTime": 1.5}`, "invalid_ingredient"},
		{"missing requiredItems", `{"type": "recipe", "name": "cake"}`, "invalid_recipe"},
		{"zero quantity", `{"type": "recipe", "name": "cake", "requiredItems": [{"name": "egg", "quantity": 0}]}`, "invalid_recipe"},
		{"duplicate items", `{"type": "recipe", "name": "cake", "requiredItems": [{"name": "egg", "quantity": 1}, {"name": "egg", "quantity": 2}]}`, "invalid_recipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAPI(t)
			rec := doJSON(t, handler, http.MethodPost, "/entry", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestCreateEntry_DuplicateName(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "egg", "cookTime": 9}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_name", errorCode(t, rec))
}

func TestCreateEntry_MalformedJSON(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/entry", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary_EndToEnd(t *testing.T) {
	handler := newTestAPI(t)

	for _, body := range []string{
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`,
		`{"type": "ingredient", "name": "flour", "cookTime": 2}`,
		`{"type": "recipe", "name": "cake", "requiredItems": [{"name": "egg", "quantity": 3}, {"name": "flour", "quantity": 2}]}`,
	} {
		rec := doJSON(t, handler, http.MethodPost, "/entry", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, "/summary?name=cake", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Name        string `json:"name"`
		CookTime    int    `json:"cookTime"`
		Ingredients []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		} `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	assert.Equal(t, "cake", summary.Name)
	assert.Equal(t, 19, summary.CookTime)

	// Order-independent comparison
	got := map[string]int{}
	for _, ing := range summary.Ingredients {
		got[ing.Name] = ing.Quantity
	}
	assert.Equal(t, map[string]int{"egg": 3, "flour": 2}, got)

	// But the rendered order itself is deterministic (sorted by name)
	names := make([]string, len(summary.Ingredients))
	for i, ing := range summary.Ingredients {
		names[i] = ing.Name
	}
	assert.True(t, sort.StringsAreSorted(names))
}

func TestSummary_FailureCodes(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("missing name parameter", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/summary", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/summary?name=phantom", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "not_found", errorCode(t, rec))
	})

	t.Run("ingredient as root", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/summary?name=egg", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "not_a_recipe", errorCode(t, rec))
	})
}

func TestSummary_CyclicRecipe(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "recipe", "name": "ouroboros", "requiredItems": [{"name": "ouroboros", "quantity": 1}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/summary?name=ouroboros", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cyclic_reference", errorCode(t, rec))
}

func TestSummary_ForwardReferenceResolvesAfterAdmission(t *testing.T) {
	handler := newTestAPI(t)

	// Recipe admitted before its ingredient exists: legal, but unresolvable
	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "recipe", "name": "toast", "requiredItems": [{"name": "bread", "quantity": 1}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/summary?name=toast", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	// Admitting the ingredient must invalidate any cached failure state
	rec = doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "bread", "cookTime": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/summary?name=toast", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSummary_ServedFromCache(t *testing.T) {
	summaryCache := cache.NewMemoryCache()
	handler := newTestAPI(t, func(o *Options) {
		o.SummaryCache = summaryCache
	})

	for _, body := range []string{
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`,
		`{"type": "recipe", "name": "omelette", "requiredItems": [{"name": "egg", "quantity": 2}]}`,
	} {
		rec := doJSON(t, handler, http.MethodPost, "/entry", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	first := doJSON(t, handler, http.MethodGet, "/summary?name=omelette", "")
	require.Equal(t, http.StatusOK, first.Code)

	// The rendered body is now cached under the summary key
	cached, err := summaryCache.Get(context.Background(), cache.SummaryKey("omelette"))
	require.NoError(t, err)
	assert.JSONEq(t, first.Body.String(), string(cached))

	second := doJSON(t, handler, http.MethodGet, "/summary?name=omelette", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestSummary_NoCacheConfigured(t *testing.T) {
	handler := newTestAPI(t, func(o *Options) {
		o.SummaryCache = nil
	})

	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "recipe", "name": "omelette", "requiredItems": [{"name": "egg", "quantity": 2}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/summary?name=omelette", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Entries int    `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 0, body.Entries)
}

func TestCreateEntry_WriteAuth(t *testing.T) {
	handler := newTestAPI(t, func(o *Options) {
		o.WriteAuth = func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") == "" {
					http.Error(w, "Authorization required", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
			})
		}
	})

	// Writes are guarded
	rec := doJSON(t, handler, http.MethodPost, "/entry",
		`{"type": "ingredient", "name": "egg", "cookTime": 5}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Reads are not
	rec = doJSON(t, handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
