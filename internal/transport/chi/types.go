package chi

import (
	"github.com/kailas-cloud/murmur/internal/domain/content"
)

// ErrorCode is the machine-readable error discriminator.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeInvalidFilename   ErrorCode = "invalid_filename"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeAlreadyExists     ErrorCode = "already_exists"
	ErrorCodeUploadTooLarge    ErrorCode = "upload_too_large"
	ErrorCodeUnsupportedUpload ErrorCode = "unsupported_upload"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// EntryResponse is a post or status on the wire.
type EntryResponse struct {
	Type     content.Kind   `json:"type"`
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Meta     map[string]any `json:"meta"`
	HTML     string         `json:"html"`
	Raw      string         `json:"raw"`
}

// PostListResponse is the body of GET /api/posts.
type PostListResponse struct {
	Count int             `json:"count"`
	Posts []EntryResponse `json:"posts"`
}

// StatusListResponse is the body of GET /api/status/history.
type StatusListResponse struct {
	Count    int             `json:"count"`
	Statuses []EntryResponse `json:"statuses"`
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query string          `json:"query"`
	Count int             `json:"count"`
	Items []EntryResponse `json:"items"`
}

// SearchParams are the query parameters of GET /api/search.
type SearchParams struct {
	Q     *string
	Limit *int
}

// ProfileResponse is the body of GET /api/profile.
type ProfileResponse struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// CreatePostRequest is the body of POST /api/post.
type CreatePostRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Time    string   `json:"time"`
}

// UpdatePostRequest is the body of PUT /api/post/{id}. Omitted fields are kept.
type UpdatePostRequest struct {
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Time    *string   `json:"time"`
}

// CreateStatusRequest is the body of POST /api/status.
type CreateStatusRequest struct {
	Content    string `json:"content"`
	Name       string `json:"name"`
	Background string `json:"background"`
}

// UpdateStatusRequest is the body of PUT /api/status/{id}. Omitted fields are kept.
type UpdateStatusRequest struct {
	Content    *string `json:"content"`
	Name       *string `json:"name"`
	Background *string `json:"background"`
}

// UploadResponse is the body of POST /api/upload.
type UploadResponse struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

func entryToResponse(e *content.Entry) EntryResponse {
	meta := e.Meta()
	return EntryResponse{
		Type:     e.Kind(),
		ID:       e.ID(),
		Filename: e.Filename(),
		Meta:     meta.Fields(e.Kind()),
		HTML:     e.HTML(),
		Raw:      e.Raw(),
	}
}

func entriesToResponse(entries []content.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = entryToResponse(&entries[i])
	}
	return out
}
