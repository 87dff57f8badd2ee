package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lingo-quiz-service/internal/domain"
)

func TestAPILeaderboardAndProfile(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()
	if _, err := mgr.RegisterUser(ctx, "u1", "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := mgr.RegisterUser(ctx, "u2", "Bob"); err != nil {
		t.Fatalf("register: %v", err)
	}

	api := NewAPIHandler(mgr, nil)

	rec := httptest.NewRecorder()
	api.Leaderboard(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard?sortBy=streak&limit=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank != 1 || entries[0].UserID != "u1" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}

	rec = httptest.NewRecorder()
	api.Profile(rec, httptest.NewRequest(http.MethodGet, "/api/profile?userId=u2", nil))
	var profile domain.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Stats.Username != "Bob" || profile.Progress.NextThreshold != 100 {
		t.Fatalf("unexpected profile %+v", profile)
	}

	rec = httptest.NewRecorder()
	api.Profile(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without userId, got %d", rec.Code)
	}
}

func TestErrorCodeMapping(t *testing.T) {
	cases := map[error]int{
		domain.ErrSessionNotFound:     http.StatusNotFound,
		domain.ErrAlreadyAnswered:     http.StatusConflict,
		domain.ErrUnsupportedLanguage: http.StatusBadRequest,
		domain.ErrRateLimited:         http.StatusTooManyRequests,
		domain.ErrPersistence:         http.StatusInternalServerError,
	}
	for err, want := range cases {
		if _, got := errorCode(err); got != want {
			t.Fatalf("%v: expected %d, got %d", err, want, got)
		}
	}
}
