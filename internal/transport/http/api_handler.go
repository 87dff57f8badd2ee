package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/domain"
)

// APIHandler serves read-only JSON endpoints next to the websocket.
type APIHandler struct {
	manager *app.SessionManager
	log     *slog.Logger
}

func NewAPIHandler(manager *app.SessionManager, log *slog.Logger) *APIHandler {
	if log == nil {
		log = slog.Default()
	}
	return &APIHandler{manager: manager, log: log}
}

// Register mounts the endpoints on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/profile", h.Profile)
	mux.HandleFunc("/api/leaderboard", h.Leaderboard)
	mux.HandleFunc("/api/languages", h.Languages)
}

// Profile handles GET /api/profile?userId=&name=.
func (h *APIHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	profile, err := h.manager.Profile(r.Context(), userID, r.URL.Query().Get("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Leaderboard handles GET /api/leaderboard?sortBy=xp|streak&limit=N.
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.manager.Leaderboard(r.Context(), domain.ParseSortKey(r.URL.Query().Get("sortBy")), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.SupportedLanguages())
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	_, status := errorCode(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("api request failed", "error", err)
	}
	writeJSON(w, status, newErrorPayload(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
