package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"subvault/internal/api"
	"subvault/internal/catalog"
	"subvault/internal/config"
	"subvault/internal/logging"
	"subvault/internal/services"
	"subvault/internal/store"
	"subvault/internal/titles"
)

type apiServer struct {
	bind       string
	logger     *slog.Logger
	daemon     *Daemon
	sessionTTL time.Duration

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address is required")
	}

	srv := &apiServer{
		bind:       bind,
		logger:     logger,
		daemon:     d,
		sessionTTL: time.Duration(cfg.Sessions.TTLSeconds) * time.Second,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/subtitle", srv.handleSubtitle)
	mux.HandleFunc("/api/popular", srv.handlePopular)
	mux.HandleFunc("/api/search", srv.handleSearch)
	mux.HandleFunc("/api/suggestions", srv.handleSuggestions)
	mux.HandleFunc("/api/media", srv.handleMedia)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           srv.withRequestID(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// withRequestID tags every request with a correlation ID, echoed in the
// response for log cross-referencing.
func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), requestID)))
	})
}

func (s *apiServer) handleSubtitle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	title := strings.TrimSpace(query.Get("title"))
	if title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	language := strings.TrimSpace(query.Get("language"))
	if language == "" {
		language = s.daemon.cfg.Languages.Default
	}

	result := s.daemon.service.GetSubtitle(r.Context(), title, language)

	w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
	w.Header().Set("X-Subtitle-Source", string(result.Source))
	if result.CacheHit {
		w.Header().Set("X-Subtitle-Cache", "hit")
	} else {
		w.Header().Set("X-Subtitle-Cache", "miss")
	}
	if result.Provider != "" {
		w.Header().Set("X-Subtitle-Provider", result.Provider)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content); err != nil {
		s.log().Warn("failed to write subtitle response", logging.Error(err))
	}
}

func (s *apiServer) handlePopular(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), 10)
	movies, err := s.daemon.store.TopMovies(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := api.PopularResponse{Movies: make([]api.PopularMovie, 0, len(movies))}
	for _, movie := range movies {
		entry := api.PopularMovie{
			MovieKey:     movie.MovieKey,
			RequestCount: movie.RequestCount,
			Languages:    movie.Languages,
		}
		if !movie.LastRequestedAt.IsZero() {
			entry.LastRequestedAt = movie.LastRequestedAt.Format(time.RFC3339)
		}
		payload.Movies = append(payload.Movies, entry)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// searchCursor is the paging state persisted between search requests.
type searchCursor struct {
	Query      string `json:"query"`
	Language   string `json:"language"`
	Resolution string `json:"resolution"`
	Category   string `json:"category"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()

	cursor := searchCursor{
		Query:      strings.TrimSpace(query.Get("query")),
		Language:   strings.TrimSpace(query.Get("language")),
		Resolution: strings.TrimSpace(query.Get("resolution")),
		Category:   strings.TrimSpace(query.Get("category")),
		Limit:      parseLimit(query.Get("limit"), catalog.DefaultPageSize),
	}
	sessionID := strings.TrimSpace(query.Get("session"))
	if sessionID != "" {
		value, ok, err := s.daemon.store.GetSession(r.Context(), sessionID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			s.writeError(w, http.StatusGone, "search session expired")
			return
		}
		if err := json.Unmarshal([]byte(value), &cursor); err != nil {
			s.writeError(w, http.StatusInternalServerError, "corrupt search session")
			return
		}
	}

	result, err := s.daemon.catalog.Search(r.Context(), catalog.SearchRequest{
		Query:      cursor.Query,
		Language:   cursor.Language,
		Resolution: cursor.Resolution,
		Category:   cursor.Category,
		Limit:      cursor.Limit,
		Offset:     cursor.Offset,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := api.SearchResponse{
		Items:   make([]api.MediaEntry, 0, len(result.Items)),
		Total:   result.Total,
		HasMore: result.HasMore,
	}
	for _, item := range result.Items {
		payload.Items = append(payload.Items, mediaEntry(item))
	}

	if result.HasMore {
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		cursor.Offset += len(result.Items)
		state, err := json.Marshal(cursor)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := s.daemon.store.SetSession(r.Context(), sessionID, string(state), s.sessionTTL); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payload.Session = sessionID
	} else if sessionID != "" {
		// Final page, the cursor has no further use.
		if err := s.daemon.store.DeleteSession(r.Context(), sessionID); err != nil {
			s.log().Warn("failed to delete finished search session", logging.Error(err))
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), 10)
	suggestions, err := s.daemon.catalog.PreloadSuggestions(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := api.SuggestionsResponse{Suggestions: make([]api.PreloadSuggestion, 0, len(suggestions))}
	for _, suggestion := range suggestions {
		payload.Suggestions = append(payload.Suggestions, api.PreloadSuggestion{
			MovieKey:     suggestion.MovieKey,
			Language:     suggestion.Language,
			RequestCount: suggestion.RequestCount,
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.AddMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid media payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	id, err := s.daemon.store.AddMedia(r.Context(), store.MediaRecord{
		Title:           title,
		NormalizedTitle: titles.Normalize(title),
		FileName:        req.FileName,
		FileSize:        req.FileSize,
		Language:        req.Language,
		Resolution:      req.Resolution,
		Category:        req.Category,
		FileRef:         req.FileRef,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, api.AddMediaResponse{ID: id})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:       status.Running,
		PID:           status.PID,
		DatabasePath:  status.DatabasePath,
		LockFilePath:  status.LockFilePath,
		RemoteEnabled: status.RemoteEnabled,
		Subtitles: api.SubtitleStats{
			Total:         status.Subtitles.Total,
			RemoteCount:   status.Subtitles.RemoteCount,
			FallbackCount: status.Subtitles.FallbackCount,
			TotalBytes:    status.Subtitles.TotalBytes,
		},
		Popularity: api.PopularityStats{
			TrackedMovies: status.Popularity.TrackedMovies,
			TotalRequests: status.Popularity.TotalRequests,
		},
		MediaCount: status.MediaCount,
	}
	if s.daemon.quota != nil {
		quotaCtx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		quota := &api.QuotaStatus{DailyLimit: s.daemon.cfg.Admission.DailyLimit}
		used, err := s.daemon.quota.UsedToday(quotaCtx)
		if err != nil {
			quota.Error = err.Error()
		} else {
			quota.UsedToday = used
			quota.Remaining = quota.DailyLimit - used
		}
		payload.Quota = quota
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func mediaEntry(record store.MediaRecord) api.MediaEntry {
	entry := api.MediaEntry{
		ID:         record.ID,
		Title:      record.Title,
		FileName:   record.FileName,
		FileSize:   record.FileSize,
		Language:   record.Language,
		Resolution: record.Resolution,
		Category:   record.Category,
		FileRef:    record.FileRef,
	}
	if !record.AddedAt.IsZero() {
		entry.AddedAt = record.AddedAt.Format(time.RFC3339)
	}
	return entry
}

func parseLimit(value string, fallback int) int {
	limit, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
