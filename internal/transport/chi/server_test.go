package chi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/config"
	"github.com/kailas-cloud/murmur/internal/domain/content"
	"github.com/kailas-cloud/murmur/internal/domain/search/token"
	contentrepo "github.com/kailas-cloud/murmur/internal/repository/content"
	uploadrepo "github.com/kailas-cloud/murmur/internal/repository/upload"
	healthuc "github.com/kailas-cloud/murmur/internal/usecase/health"
	postuc "github.com/kailas-cloud/murmur/internal/usecase/post"
	searchuc "github.com/kailas-cloud/murmur/internal/usecase/search"
	statusuc "github.com/kailas-cloud/murmur/internal/usecase/status"
	uploaduc "github.com/kailas-cloud/murmur/internal/usecase/upload"
)

const testKey = "test-key"

type testEnv struct {
	handler http.Handler
	site    *config.Live
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	renderer, err := contentrepo.NewRenderer(16)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	posts, err := contentrepo.New(filepath.Join(dir, "posts"), content.KindPost, renderer)
	if err != nil {
		t.Fatalf("posts store: %v", err)
	}
	statuses, err := contentrepo.New(filepath.Join(dir, "statuses"), content.KindStatus, renderer)
	if err != nil {
		t.Fatalf("statuses store: %v", err)
	}
	backend, err := uploadrepo.NewLocal(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("upload backend: %v", err)
	}

	var cfg config.Config
	cfg.Auth.APIKeys = []string{testKey}
	cfg.Profile = config.ProfileConfig{Nickname: "murmur", Avatar: "/uploads/me.png"}
	site := config.NewLive(cfg)

	postSvc := postuc.New(posts, site)
	statusSvc := statusuc.New(statuses, site)
	uploads := uploaduc.New(backend, 1024, "/uploads")
	srv := NewServer(
		postSvc,
		statusSvc,
		searchuc.New(postSvc, statusSvc, token.New(nil)),
		uploads,
		healthuc.New(posts, statuses, uploads),
		site,
		zap.NewNop(),
	)

	r := gochi.NewRouter()
	srv.Routes(r)
	return &testEnv{handler: r, site: site}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func TestServer_Profile(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/profile", nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[ProfileResponse](t, rr)
	if got.Nickname != "murmur" || got.Avatar != "/uploads/me.png" {
		t.Errorf("profile = %+v", got)
	}

	cfg := env.site.Load()
	cfg.Profile.Nickname = "renamed"
	env.site.Store(cfg)

	got = decode[ProfileResponse](t, env.do(t, http.MethodGet, "/api/profile", nil, false))
	if got.Nickname != "renamed" {
		t.Errorf("nickname after reload = %q", got.Nickname)
	}
}

func TestServer_PostLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/post", CreatePostRequest{
		Content: "hello **world**",
		Tags:    []string{"golang", " golang ", ""},
		Time:    "2024-03-01 10:00:00",
	}, true)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rr.Code, rr.Body.String())
	}
	created := decode[EntryResponse](t, rr)
	if created.Type != content.KindPost {
		t.Errorf("type = %q", created.Type)
	}
	if !strings.Contains(created.HTML, "<strong>world</strong>") {
		t.Errorf("html = %q", created.HTML)
	}
	if tags, _ := created.Meta["tags"].([]any); len(tags) != 1 {
		t.Errorf("tags = %v, want one normalized tag", created.Meta["tags"])
	}
	if loc := rr.Header().Get("Location"); loc != "/api/post/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	rr = env.do(t, http.MethodGet, "/api/post/"+created.ID, nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	body := "updated"
	rr = env.do(t, http.MethodPut, "/api/post/"+created.ID, UpdatePostRequest{Content: &body}, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d body %s", rr.Code, rr.Body.String())
	}
	updated := decode[EntryResponse](t, rr)
	if updated.Raw != "updated" {
		t.Errorf("raw = %q", updated.Raw)
	}
	if updated.Meta["time"] != created.Meta["time"] {
		t.Errorf("time changed: %v -> %v", created.Meta["time"], updated.Meta["time"])
	}

	list := decode[PostListResponse](t, env.do(t, http.MethodGet, "/api/posts", nil, false))
	if list.Count != 1 || len(list.Posts) != 1 {
		t.Fatalf("list = %+v", list)
	}

	rr = env.do(t, http.MethodDelete, "/api/post/"+created.ID, nil, true)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/api/post/"+created.ID, nil, false)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rr.Code)
	}
}

func TestServer_WritesRequireKey(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/post", CreatePostRequest{Content: "x"}, false)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("create without key = %d, want 401", rr.Code)
	}

	cfg := env.site.Load()
	cfg.Auth.APIKeys = nil
	env.site.Store(cfg)

	rr = env.do(t, http.MethodPost, "/api/post", CreatePostRequest{Content: "x"}, true)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("create with keys removed = %d, want 401", rr.Code)
	}
}

func TestServer_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		method   string
		target   string
		body     any
		auth     bool
		wantCode int
		wantErr  ErrorCode
		wantFld  string
	}{
		{"empty post content", http.MethodPost, "/api/post", CreatePostRequest{Content: "  "}, true,
			http.StatusBadRequest, ErrorCodeValidationFailed, "content"},
		{"bad post time", http.MethodPost, "/api/post", CreatePostRequest{Content: "x", Time: "yesterday-ish"}, true,
			http.StatusBadRequest, ErrorCodeValidationFailed, "time"},
		{"status without name", http.MethodPost, "/api/status", CreateStatusRequest{Content: "x"}, true,
			http.StatusBadRequest, ErrorCodeValidationFailed, "name"},
		{"missing post", http.MethodGet, "/api/post/2024-01-01", nil, false,
			http.StatusNotFound, ErrorCodeNotFound, ""},
		{"traversal id", http.MethodGet, "/api/post/..%2Fsecret", nil, false,
			http.StatusBadRequest, ErrorCodeInvalidFilename, ""},
		{"no current status", http.MethodGet, "/api/status/current", nil, false,
			http.StatusNotFound, ErrorCodeNotFound, ""},
		{"negative limit", http.MethodGet, "/api/search?q=x&limit=-1", nil, false,
			http.StatusBadRequest, ErrorCodeValidationFailed, "limit"},
		{"non-numeric limit", http.MethodGet, "/api/search?q=x&limit=abc", nil, false,
			http.StatusBadRequest, ErrorCodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.target, tt.body, tt.auth)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			got := decode[ErrorResponse](t, rr)
			if got.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", got.Code, tt.wantErr)
			}
			if got.Field != tt.wantFld {
				t.Errorf("field = %q, want %q", got.Field, tt.wantFld)
			}
		})
	}
}

func TestServer_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/post", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+testKey)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestServer_StatusCurrentAndHistory(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"coding", "sleeping"} {
		rr := env.do(t, http.MethodPost, "/api/status", CreateStatusRequest{Name: name, Content: "now " + name}, true)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create status %s = %d body %s", name, rr.Code, rr.Body.String())
		}
	}

	cur := decode[EntryResponse](t, env.do(t, http.MethodGet, "/api/status/current", nil, false))
	if cur.Meta["name"] != "sleeping" {
		t.Errorf("current name = %v, want sleeping", cur.Meta["name"])
	}

	hist := decode[StatusListResponse](t, env.do(t, http.MethodGet, "/api/status/history", nil, false))
	if hist.Count != 2 {
		t.Fatalf("history count = %d, want 2", hist.Count)
	}
	if hist.Statuses[0].ID != cur.ID {
		t.Errorf("history[0] = %s, want current %s", hist.Statuses[0].ID, cur.ID)
	}

	rr := env.do(t, http.MethodGet, "/api/status/"+hist.Statuses[1].ID, nil, false)
	if rr.Code != http.StatusOK {
		t.Errorf("get status = %d", rr.Code)
	}
}

func TestServer_Search(t *testing.T) {
	env := newTestEnv(t)

	for _, req := range []CreatePostRequest{
		{Content: "channels and goroutines", Tags: []string{"golang"}, Time: "2024-01-01 00:00:00"},
		{Content: "a day at the beach", Tags: []string{"life"}, Time: "2024-01-02 00:00:00"},
		{Content: "generics in practice", Tags: []string{"golang"}, Time: "2024-01-03 00:00:00"},
	} {
		if rr := env.do(t, http.MethodPost, "/api/post", req, true); rr.Code != http.StatusCreated {
			t.Fatalf("seed post = %d", rr.Code)
		}
	}

	rr := env.do(t, http.MethodGet, "/api/search?q=golang", nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("search status = %d", rr.Code)
	}
	got := decode[SearchResponse](t, rr)
	if got.Query != "golang" || got.Count != 2 {
		t.Fatalf("search = %+v", got)
	}
	if got.Items[0].Raw != "generics in practice" {
		t.Errorf("first hit = %q, want newest golang post", got.Items[0].Raw)
	}

	got = decode[SearchResponse](t, env.do(t, http.MethodGet, "/api/search?q=golang&limit=1", nil, false))
	if got.Count != 1 || len(got.Items) != 1 {
		t.Errorf("limited search = %+v", got)
	}
}

func TestServer_UploadRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte("\x89PNG fake image"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", testKey)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload status = %d body %s", rr.Code, rr.Body.String())
	}
	up := decode[UploadResponse](t, rr)
	if !strings.HasPrefix(up.URL, "/uploads/") || !strings.HasSuffix(up.Name, ".png") {
		t.Errorf("upload = %+v", up)
	}
	if up.Size != int64(len("\x89PNG fake image")) {
		t.Errorf("size = %d", up.Size)
	}

	rr = env.do(t, http.MethodGet, up.URL, nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rr.Body.String() != "\x89PNG fake image" {
		t.Errorf("body = %q", rr.Body.String())
	}

	rr = env.do(t, http.MethodDelete, "/api/upload/"+up.Name, nil, true)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, up.URL, nil, false)
	if rr.Code != http.StatusNotFound {
		t.Errorf("serve after delete = %d, want 404", rr.Code)
	}
}

func TestServer_UploadRejections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		filename string
		body     []byte
		want     int
	}{
		{"unsupported type", "run.exe", []byte("MZ"), http.StatusUnsupportedMediaType},
		{"too large", "big.png", bytes.Repeat([]byte("a"), 2048), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			fw, _ := mw.CreateFormFile("file", tt.filename)
			_, _ = fw.Write(tt.body)
			_ = mw.Close()

			req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			req.Header.Set("Authorization", "Bearer "+testKey)
			rr := httptest.NewRecorder()
			env.handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/health", nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("health status = %d", rr.Code)
	}
	got := decode[HealthResponse](t, rr)
	if got.Status != "ok" {
		t.Errorf("status = %q", got.Status)
	}
	for _, k := range []string{"posts", "statuses", "uploads"} {
		if got.Checks[k] != "ok" {
			t.Errorf("check %s = %q", k, got.Checks[k])
		}
	}
}
