package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/config"
	"github.com/kailas-cloud/murmur/internal/domain"
	logpkg "github.com/kailas-cloud/murmur/internal/logger"
	healthuc "github.com/kailas-cloud/murmur/internal/usecase/health"
	postuc "github.com/kailas-cloud/murmur/internal/usecase/post"
	searchuc "github.com/kailas-cloud/murmur/internal/usecase/search"
	statusuc "github.com/kailas-cloud/murmur/internal/usecase/status"
	uploaduc "github.com/kailas-cloud/murmur/internal/usecase/upload"
)

const (
	maxJSONBody = 1 << 20
	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Site exposes the live, reloadable parts of the configuration.
type Site interface {
	Profile() config.ProfileConfig
	APIKeys() []string
}

// Server serves the public read API and the authenticated write API.
type Server struct {
	posts         *postuc.Service
	statuses      *statusuc.Service
	search        *searchuc.Service
	uploads       *uploaduc.Service
	health        *healthuc.Service
	site          Site
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. uploads may be nil to disable media.
func NewServer(
	posts *postuc.Service,
	statuses *statusuc.Service,
	search *searchuc.Service,
	uploads *uploaduc.Service,
	health *healthuc.Service,
	site Site,
	logger *zap.Logger,
) *Server {
	s := &Server{
		posts:    posts,
		statuses: statuses,
		search:   search,
		uploads:  uploads,
		health:   health,
		site:     site,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		maxBytesHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidFilename, http.StatusBadRequest, ErrorCodeInvalidFilename),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, ErrorCodeUploadTooLarge),
		sentinelHandler(domain.ErrUnsupportedUpload, http.StatusUnsupportedMediaType, ErrorCodeUnsupportedUpload),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r gochi.Router) {
		r.Get("/profile", s.GetProfile)
		r.Get("/posts", s.ListPosts)
		r.Get("/post/{id}", s.GetPost)
		r.Get("/status/current", s.CurrentStatus)
		r.Get("/status/history", s.StatusHistory)
		r.Get("/status/{id}", s.GetStatus)
		r.Get("/search", s.Search)

		r.Group(func(r gochi.Router) {
			r.Use(APIKeyMiddleware(s.site))
			r.Post("/post", s.CreatePost)
			r.Put("/post/{id}", s.UpdatePost)
			r.Delete("/post/{id}", s.DeletePost)
			r.Post("/status", s.CreateStatus)
			r.Put("/status/{id}", s.UpdateStatus)
			r.Delete("/status/{id}", s.DeleteStatus)
			if s.uploads != nil {
				r.Post("/upload", s.UploadFile)
				r.Delete("/upload/{name}", s.DeleteUpload)
			}
		})
	})

	if s.uploads != nil {
		r.Get(s.uploads.PublicPath()+"/{name}", s.ServeUpload)
	}
}

// GetProfile handles GET /api/profile.
func (s *Server) GetProfile(w http.ResponseWriter, _ *http.Request) {
	p := s.site.Profile()
	writeJSON(w, http.StatusOK, ProfileResponse{Nickname: p.Nickname, Avatar: p.Avatar})
}

// ListPosts handles GET /api/posts.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Count: len(posts), Posts: entriesToResponse(posts)})
}

// GetPost handles GET /api/post/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	e, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(&e))
}

// CreatePost handles POST /api/post.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	e, err := s.posts.Create(r.Context(), postuc.CreateInput{Content: req.Content, Tags: req.Tags, Time: req.Time})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/post/"+e.ID())
	writeJSON(w, http.StatusCreated, entryToResponse(&e))
}

// UpdatePost handles PUT /api/post/{id}.
func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdatePostRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	e, err := s.posts.Update(r.Context(), id, postuc.UpdateInput{Content: req.Content, Tags: req.Tags, Time: req.Time})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(&e))
}

// DeletePost handles DELETE /api/post/{id}.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.posts.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrentStatus handles GET /api/status/current.
func (s *Server) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	e, err := s.statuses.Current(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(&e))
}

// StatusHistory handles GET /api/status/history.
func (s *Server) StatusHistory(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.statuses.History(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusListResponse{Count: len(statuses), Statuses: entriesToResponse(statuses)})
}

// GetStatus handles GET /api/status/{id}.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	e, err := s.statuses.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(&e))
}

// CreateStatus handles POST /api/status.
func (s *Server) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req CreateStatusRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	e, err := s.statuses.Create(r.Context(), statusuc.CreateInput{
		Content: req.Content, Name: req.Name, Background: req.Background,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/status/"+e.ID())
	writeJSON(w, http.StatusCreated, entryToResponse(&e))
}

// UpdateStatus handles PUT /api/status/{id}.
func (s *Server) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	e, err := s.statuses.Update(r.Context(), id, statusuc.UpdateInput{
		Content: req.Content, Name: req.Name, Background: req.Background,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(&e))
}

// DeleteStatus handles DELETE /api/status/{id}.
func (s *Server) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.statuses.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid query parameters")
		return
	}

	limit := 0
	if params.Limit != nil {
		if *params.Limit < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Code: ErrorCodeValidationFailed, Message: "limit must not be negative", Field: "limit",
			})
			return
		}
		limit = *params.Limit
	}
	query := ""
	if params.Q != nil {
		query = *params.Q
	}

	resp, err := s.search.Search(r.Context(), query, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Count: resp.Count, Items: entriesToResponse(resp.Hits)})
}

// UploadFile handles POST /api/upload with a multipart "file" part.
func (s *Server) UploadFile(w http.ResponseWriter, r *http.Request) {
	if max := s.uploads.MaxSize(); max > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, max+multipartOverhead)
	}
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "expected multipart/form-data body")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		stored, err := s.uploads.Put(r.Context(), part.FileName(), -1, part)
		_ = part.Close()
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		w.Header().Set("Location", stored.URL)
		writeJSON(w, http.StatusCreated, UploadResponse{
			Name: stored.Name, URL: stored.URL, Size: stored.Size, ContentType: stored.ContentType,
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code: ErrorCodeValidationFailed, Message: "missing file part", Field: "file",
	})
}

// DeleteUpload handles DELETE /api/upload/{name}.
func (s *Server) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "name")
	if !ok {
		return
	}
	if err := s.uploads.Delete(r.Context(), name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeUpload handles GET {public_path}/{name}.
func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "name")
	if !ok {
		return
	}
	rc, info, err := s.uploads.Open(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	defer rc.Close()

	h := w.Header()
	if info.ContentType != "" {
		h.Set("Content-Type", info.ContentType)
	}
	h.Set("Cache-Control", "public, max-age=31536000, immutable")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, info.ModTime, rs)
		return
	}
	if info.Size > 0 {
		h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.ModTime.IsZero() {
		h.Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.Copy(w, rc)
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := bindPathParam(r, name)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid path parameter "+name)
		return "", false
	}
	return v, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidFilename,
		domain.ErrInvalidContent,
		domain.ErrUploadTooLarge,
		domain.ErrUnsupportedUpload,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports the offending field of a ValidationError.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    ErrorCodeValidationFailed,
		Message: ve.Field + " " + ve.Reason,
		Field:   ve.Field,
	})
	return true
}

// maxBytesHandler maps an exhausted http.MaxBytesReader to 413.
func maxBytesHandler(w http.ResponseWriter, err error, _ string) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeUploadTooLarge, domain.ErrUploadTooLarge.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			logpkg.FromContext(r.Context()).Debug("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
