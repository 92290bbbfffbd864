// CLAUDE:SUMMARY REST surface: tracking, preferences, recommendations, category/trending/search, cache admin.
package newsfeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterHTTP mounts the service's REST routes on r.
func (svc *Service) RegisterHTTP(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/track/click", func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
		pref, err := svc.RecordClick(r.Context(), req.UserID, req.Category, req.ArticleURL)
		if err != nil {
			svc.writeTrackError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, trackResponse{Success: true, Preference: pref})
	})

	r.Post("/api/track/reading-time", func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
		pref, err := svc.RecordReadingTime(r.Context(), req.UserID, req.Category, req.ArticleURL, req.Seconds)
		if err != nil {
			svc.writeTrackError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, trackResponse{Success: true, Preference: pref})
	})

	r.Get("/api/user/preferences", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		prefs, err := svc.Preferences(r.Context(), userID)
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		if prefs == nil {
			prefs = []*CategoryPreference{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"user_id":     userID,
			"preferences": prefs,
		})
	})

	r.Get("/api/recommendations", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		total := queryInt(r, "count", 20)
		items, err := svc.BuildFeed(r.Context(), userID, total)
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		categories, err := svc.RankCategories(r.Context(), userID, svc.config.RankLimit)
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		if items == nil {
			items = []FeedItem{}
		}
		if categories == nil {
			categories = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":         true,
			"user_id":         userID,
			"categories":      categories,
			"recommendations": items,
		})
	})

	r.Get("/api/news/category/{category}", func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		batch, err := svc.CategoryArticles(r.Context(), category, queryInt(r, "page_size", 20))
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		writeBatch(w, batch)
	})

	r.Get("/api/news/trending", func(w http.ResponseWriter, r *http.Request) {
		batch, err := svc.TrendingArticles(r.Context(), queryInt(r, "page_size", 20))
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		writeBatch(w, batch)
	})

	r.Get("/api/news/search", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		items, err := svc.SearchArticles(r.Context(), query, queryInt(r, "page_size", 20))
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		if items == nil {
			items = []FeedItem{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"query":    query,
			"articles": items,
		})
	})

	r.Post("/api/cache/refresh", func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		svc.RefreshCache(category)
		scope := category
		if scope == "" {
			scope = "all"
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "scope": scope})
	})

	r.Get("/api/cache/status", func(w http.ResponseWriter, r *http.Request) {
		entries := svc.CacheStatus()
		if entries == nil {
			entries = []CacheEntryStatus{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	})

	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.TrackingStats(r.Context())
		if err != nil {
			svc.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})
}

type trackRequest struct {
	UserID     string  `json:"user_id"`
	Category   string  `json:"category"`
	ArticleURL string  `json:"article_url"`
	Seconds    float64 `json:"seconds"`
}

type trackResponse struct {
	Success    bool                `json:"success"`
	Preference *CategoryPreference `json:"preference,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// writeBatch renders a cached category batch. Status is "stale" when the
// batch outlived its TTL and the upstream refresh failed.
func writeBatch(w http.ResponseWriter, batch *CategoryBatch) {
	status := "ok"
	if batch.Stale {
		status = "stale"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"category":   batch.Category,
		"articles":   batch.Articles,
		"stale":      batch.Stale,
		"fetched_at": batch.FetchedAt,
	})
}

// writeTrackError keeps tracking failures soft: the client fires these
// calls in the background and must never block article reading on them.
func (svc *Service) writeTrackError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, trackResponse{Success: false, Error: err.Error()})
		return
	}
	svc.logger.Error("tracking write failed", "error", err)
	writeJSON(w, http.StatusServiceUnavailable, trackResponse{Success: false, Error: err.Error()})
}

func (svc *Service) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ErrSourceUnavailable):
		svc.logger.Error("news source unavailable", "error", err)
		writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, ErrStorageUnavailable):
		svc.logger.Error("tracking store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		svc.logger.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
