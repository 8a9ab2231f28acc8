// Package handlers provides the HTTP request handlers for the emergency
// reference API. This file holds the handler type, its dependencies and the
// shared response helpers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/search"
	"github.com/giygas/emergency-reference/suggest"
	"github.com/giygas/emergency-reference/userstate"
	"github.com/go-chi/chi/v5"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// defaultMaxBodyBytes bounds JSON request bodies, import files included,
// until WithMaxBodyBytes sets the configured limit.
const defaultMaxBodyBytes = 2 << 20

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	engine        *search.Engine
	state         *userstate.State
	healthChecker interfaces.HealthChecker
	now           func() time.Time
	maxBodyBytes  int64

	navMu     sync.Mutex
	navigator *suggest.Navigator
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	dataStore interfaces.DataStore,
	validator interfaces.DataValidator,
	engine *search.Engine,
	state *userstate.State,
	healthChecker interfaces.HealthChecker,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		engine:        engine,
		state:         state,
		healthChecker: healthChecker,
		now:           time.Now,
		maxBodyBytes:  defaultMaxBodyBytes,
		navigator:     suggest.NewNavigator(),
	}
}

// WithMaxBodyBytes sets the request body limit. Non-positive values keep the
// current one.
func (h *HTTPHandlerImpl) WithMaxBodyBytes(n int64) *HTTPHandlerImpl {
	if n > 0 {
		h.maxBodyBytes = n
	}
	return h
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", h.now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// decodeJSON reads a bounded JSON body into dst. It writes the error
// response itself and reports false on failure.
func (h *HTTPHandlerImpl) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, ok := h.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		logging.Warn("Malformed request body", "path", r.URL.Path, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

func (h *HTTPHandlerImpl) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body too large. Maximum allowed size is %d bytes", tooLarge.Limit))
			return nil, false
		}
		h.RespondWithError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}
	return body, true
}

// conditionFromRequest resolves the {id} URL parameter against the current
// snapshot, writing a 400 or 404 when it cannot.
func (h *HTTPHandlerImpl) conditionFromRequest(w http.ResponseWriter, r *http.Request) (*entities.Condition, bool) {
	raw := chi.URLParam(r, "id")
	id, err := h.validator.ValidateID(raw)
	if err != nil {
		logging.Warn("Unusual user input", "id", raw)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid condition id")
		return nil, false
	}
	c, exists := h.dataStore.GetConditionsMap()[id]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Condition not found")
		return nil, false
	}
	return c, true
}

// persistence reports a store failure next to an otherwise successful
// mutation: the in-memory change is kept.
func persistence(payload map[string]any, err error) map[string]any {
	payload["persisted"] = err == nil
	if err != nil {
		payload["warning"] = "Change kept in memory but could not be saved: " + err.Error()
	}
	return payload
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string          `json:"status"`
	Uptime string          `json:"uptime"`
	Data   map[string]any  `json:"data"`
	User   userstate.Stats `json:"user"`
	Search map[string]any  `json:"search"`
	System map[string]any  `json:"system"`
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.healthChecker.HealthCheck(r.Context())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Duration(0)
	if starter, ok := h.dataStore.(interface{ GetServerStartTime() time.Time }); ok {
		if start := starter.GetServerStartTime(); !start.IsZero() {
			uptime = h.now().Sub(start)
		}
	}

	h.RespondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Uptime: formatUptimeHuman(uptime),
		Data:   details,
		User:   h.state.Stats(),
		Search: map[string]any{
			"cached_results": h.engine.CacheLen(),
			"computations":   h.engine.Computations(),
		},
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}
