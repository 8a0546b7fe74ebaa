// Package api exposes the cookbook over HTTP: entry admission, recipe
// summaries, and the handwriting normalization helper.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/devdonalds/cookbook/internal/cookbook"
	"github.com/devdonalds/cookbook/internal/web/cache"
	"github.com/devdonalds/cookbook/internal/web/middleware"
	"github.com/devdonalds/cookbook/internal/web/request"
	"github.com/devdonalds/cookbook/internal/web/response"
)

// API serves the cookbook HTTP endpoints
type API struct {
	registry *cookbook.Registry
	resolver *cookbook.Resolver
	cache    cache.Cache
	cacheTTL time.Duration
	parser   *request.Parser
	logger   *zap.Logger

	writeAuth middleware.Middleware
}

// Options configures the API
type Options struct {
	// Registry is the entry store; required
	Registry *cookbook.Registry
	// SummaryCache caches rendered summaries per recipe name; optional
	SummaryCache cache.Cache
	// SummaryTTL overrides the cache backend's default TTL when > 0
	SummaryTTL time.Duration
	// Logger for handler-level events; optional
	Logger *zap.Logger
	// WriteAuth, when set, guards the admission endpoint
	WriteAuth middleware.Middleware
}

// New creates the API around a registry
func New(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &API{
		registry:  opts.Registry,
		resolver:  cookbook.NewResolver(opts.Registry),
		cache:     opts.SummaryCache,
		cacheTTL:  opts.SummaryTTL,
		parser:    request.NewParser(),
		logger:    logger,
		writeAuth: opts.WriteAuth,
	}
}

// Routes builds the cookbook route table
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", a.handleHealth)
	r.Post("/parse", a.handleParse)
	r.Get("/summary", a.handleSummary)

	if a.writeAuth != nil {
		r.With(a.writeAuth).Post("/entry", a.handleCreateEntry)
	} else {
		r.Post("/entry", a.handleCreateEntry)
	}

	return r
}

// parseRequest is the body of POST /parse
type parseRequest struct {
	Input string `json:"input"`
}

// parseResponse is the success body of POST /parse
type parseResponse struct {
	Msg string `json:"msg"`
}

// handleParse normalizes a free-text recipe name
func (a *API) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := a.parser.ParseJSON(w, r, &req); err != nil {
		response.RenderBadRequest(w, err.Error())
		return
	}

	normalized, err := cookbook.NormalizeName(req.Input)
	if err != nil {
		response.RenderErrorWithCode(w, http.StatusBadRequest, err, "invalid_name")
		return
	}

	response.RenderJSON(w, http.StatusOK, parseResponse{Msg: normalized})
}

// handleCreateEntry admits a new entry into the cookbook.
// Validation failures never touch the registry; every rejection kind
// carries its own code so clients can tell a duplicate name from a
// malformed recipe.
func (a *API) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := a.parser.ParseJSON(w, r, &raw); err != nil {
		response.RenderBadRequest(w, err.Error())
		return
	}

	entry, err := cookbook.ParseEntry(raw)
	if err != nil {
		a.renderCookbookError(w, err)
		return
	}

	if err := a.registry.Insert(entry); err != nil {
		a.renderCookbookError(w, err)
		return
	}

	// A new entry can turn a failing resolution into a succeeding one
	// (forward references), so stale summaries must go
	a.invalidateSummaries(r.Context())

	a.logger.Info("entry admitted",
		zap.String("name", entry.EntryName()),
		zap.Int("entries", a.registry.Len()),
	)

	response.RenderJSON(w, http.StatusOK, struct{}{})
}

// summaryResponse is the success body of GET /summary
type summaryResponse struct {
	Name        string               `json:"name"`
	CookTime    int                  `json:"cookTime"`
	Ingredients []ingredientQuantity `json:"ingredients"`
}

type ingredientQuantity struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// handleSummary resolves a recipe into total cook time and flattened
// ingredient quantities
func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.RenderBadRequest(w, "query parameter \"name\" is required")
		return
	}

	key := cache.SummaryKey(name)
	if a.cache != nil {
		if body, err := a.cache.Get(r.Context(), key); err == nil {
			response.RenderRaw(w, http.StatusOK, body)
			return
		} else if !cache.IsCacheMiss(err) {
			// A broken cache must not break reads; fall through to resolve
			a.logger.Warn("summary cache read failed", zap.Error(err))
		}
	}

	result, err := a.resolver.Resolve(name)
	if err != nil {
		a.renderCookbookError(w, err)
		return
	}

	summary := summaryResponse{
		Name:        name,
		CookTime:    result.TotalCookTime,
		Ingredients: sortedIngredients(result.Ingredients),
	}

	body, err := json.Marshal(summary)
	if err != nil {
		response.RenderInternalError(w, err)
		return
	}

	if a.cache != nil {
		if err := a.cache.Set(r.Context(), key, body, a.cacheTTL); err != nil {
			a.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}

	response.RenderRaw(w, http.StatusOK, body)
}

// healthResponse is the body of GET /health
type healthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

// handleHealth is a liveness probe
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.RenderJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Entries: a.registry.Len(),
	})
}

// renderCookbookError maps a classified cookbook failure onto the wire.
// Every failure is a 400 with a distinct code; unknown names reject the
// query rather than 404.
func (a *API) renderCookbookError(w http.ResponseWriter, err error) {
	kind, ok := cookbook.KindOf(err)
	if !ok {
		response.RenderInternalError(w, err)
		return
	}

	response.RenderErrorWithCode(w, http.StatusBadRequest, err, kind.Code())
}

// invalidateSummaries clears the summary cache after an admission
func (a *API) invalidateSummaries(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Clear(ctx); err != nil {
		a.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

// sortedIngredients renders the quantity report as a name-sorted list
// so output is deterministic for a given registry state
func sortedIngredients(quantities map[string]int) []ingredientQuantity {
	ingredients := make([]ingredientQuantity, 0, len(quantities))
	for name, quantity := range quantities {
		ingredients = append(ingredients, ingredientQuantity{Name: name, Quantity: quantity})
	}
	sort.Slice(ingredients, func(i, j int) bool {
		return ingredients[i].Name < ingredients[j].Name
	})
	return ingredients
}
