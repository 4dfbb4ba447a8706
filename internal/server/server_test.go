package server

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
	"github.com/desertthunder/vowfolio/internal/tasks"
)

var (
	testSecret = []byte("test-secret")
	admin      = services.Credentials{Name: "Studio Admin", Email: "admin@example.com", Password: "password"}
)

type testServer struct {
	*httptest.Server
	store *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	s, err := store.NewWithDataset(logger, store.MockDataset())
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	h, err := New(Options{Store: s, Secret: testSecret, TokenTTL: time.Hour, Admin: admin, Logger: logger})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, store: s}
}

func (ts *testServer) api(client *http.Client) *services.APIService {
	return services.NewAPIService(ts.URL+"/api", client)
}

// gallery returns a client authorized as the seeded admin.
func (ts *testServer) gallery(t *testing.T) *services.GalleryService {
	t.Helper()
	session, err := services.NewAuthService(ts.api(nil)).Login(context.Background(), admin.Email, admin.Password)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	client := services.NewAuthorizedClient(context.Background(), session.Token, 5*time.Second)
	return services.NewGalleryService(ts.api(client))
}

func pngFile(t *testing.T, name string, w, h int) models.UploadFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return models.UploadFile{Name: name, ContentType: "image/png", Data: buf.Bytes()}
}

func ids[T any](list []T, id func(T) string) string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = id(v)
	}
	return strings.Join(out, ",")
}

func categoryIDs(list []models.Category) string {
	return ids(list, func(c models.Category) string { return c.ID })
}

func TestNew(t *testing.T) {
	t.Run("Requires Store", func(t *testing.T) {
		if _, err := New(Options{Secret: testSecret}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Requires Secret", func(t *testing.T) {
		if _, err := New(Options{Store: store.New(nil)}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Rejects Invalid Admin", func(t *testing.T) {
		_, err := New(Options{Store: store.New(nil), Secret: testSecret, Admin: services.Credentials{Email: "admin@example.com"}})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var calls []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					calls = append(calls, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls = append(calls, "handler")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if got := strings.Join(calls, ","); got != "first,second,handler" {
			t.Errorf("expected first,second,handler, got %s", got)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recoverer(shared.NewLogger(io.Discard)))
		r.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	protected := RequireAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("expected user in context")
		}
		io.WriteString(w, u.Email)
	}))

	valid, err := services.SignToken(models.User{ID: "u1", Email: "a@b.co"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	expired, err := services.SignToken(models.User{ID: "u1", Email: "a@b.co"}, testSecret, -time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	foreign, err := services.SignToken(models.User{ID: "u1", Email: "a@b.co"}, []byte("other"), time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"Missing Header", "", http.StatusUnauthorized, "Authentication required"},
		{"Wrong Scheme", "Basic abc", http.StatusUnauthorized, "Authentication required"},
		{"Expired", "Bearer " + expired, http.StatusUnauthorized, "Token expired"},
		{"Wrong Key", "Bearer " + foreign, http.StatusUnauthorized, "Invalid token"},
		{"Valid", "Bearer " + valid, http.StatusOK, "a@b.co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("expected body to contain %q, got %s", tt.body, rec.Body.String())
			}
		})
	}
}

func TestAuthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	auth := services.NewAuthService(ts.api(nil))
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		session, err := auth.Login(ctx, "ADMIN@example.com", admin.Password)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.User.Email != admin.Email || session.User.Name != admin.Name || session.User.ID == "" {
			t.Errorf("unexpected user %+v", session.User)
		}
		if _, err := services.ParseToken(session.Token, testSecret); err != nil {
			t.Errorf("token not signed with server secret: %v", err)
		}
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := auth.Login(ctx, admin.Email, "nope")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Status != http.StatusUnauthorized || remote.Message != "Invalid email or password" {
			t.Errorf("expected 401 with message, got %v", err)
		}
	})

	t.Run("Register", func(t *testing.T) {
		c := services.Credentials{Name: "Priya", Email: "priya@example.com", Password: "secret1"}
		session, err := auth.Register(ctx, c)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.User.Name != "Priya" {
			t.Errorf("unexpected user %+v", session.User)
		}

		if _, err := auth.Login(ctx, c.Email, c.Password); err != nil {
			t.Errorf("expected registered user to log in, got %v", err)
		}

		_, err = auth.Register(ctx, c)
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Status != http.StatusConflict {
			t.Errorf("expected 409 for duplicate, got %v", err)
		}
	})

	t.Run("Register Validation", func(t *testing.T) {
		_, err := auth.Register(ctx, services.Credentials{Name: "X", Email: "not-an-email", Password: "secret1"})
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Status != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("Forgot Password", func(t *testing.T) {
		if err := auth.ForgotPassword(ctx, "unknown@example.com"); err != nil {
			t.Errorf("expected no error for unknown email, got %v", err)
		}
		if err := auth.ForgotPassword(ctx, admin.Email); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestGalleryEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads Are Public", func(t *testing.T) {
		ts := newTestServer(t)
		g := services.NewGalleryService(ts.api(nil))

		cats, err := g.ListCategories(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := categoryIDs(cats); got != "1,2,3,4,5" {
			t.Errorf("expected 1,2,3,4,5, got %s", got)
		}

		albums, err := g.ListAlbums(ctx, "1")
		if err != nil || len(albums) != 2 || albums[1].Name != "Wedding Reception" {
			t.Errorf("unexpected albums %+v, err %v", albums, err)
		}
		all, err := g.ListAlbums(ctx, "")
		if err != nil || len(all) != 5 {
			t.Errorf("expected 5 albums, got %d, err %v", len(all), err)
		}

		imgs, err := g.ListImages(ctx, "1")
		if err != nil || len(imgs) != 2 || imgs[0].Order != 1 {
			t.Errorf("unexpected images %+v, err %v", imgs, err)
		}

		_, err = g.ListImages(ctx, "missing")
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Status != http.StatusNotFound {
			t.Errorf("expected 404, got %v", err)
		}
	})

	t.Run("Mutations Require Token", func(t *testing.T) {
		ts := newTestServer(t)
		g := services.NewGalleryService(ts.api(nil))

		err := g.ReorderCategory(ctx, "3", 1)
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %v", err)
		}
		if got := categoryIDs(ts.store.Categories()); got != "1,2,3,4,5" {
			t.Errorf("expected unchanged order, got %s", got)
		}
	})

	t.Run("Category Lifecycle", func(t *testing.T) {
		ts := newTestServer(t)
		g := ts.gallery(t)

		created, err := g.CreateCategory(ctx, models.Category{Name: "Sangeet Night", Order: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if created.ID == "" || created.Slug != "sangeet-night" || created.Order != 2 {
			t.Errorf("unexpected category %+v", created)
		}

		if err := g.ReorderCategory(ctx, created.ID, 6); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		if got := categoryIDs(ts.store.Categories()); got != "1,2,3,4,5,"+created.ID {
			t.Errorf("unexpected order %s", got)
		}

		updated, err := g.UpdateCategory(ctx, created.ID, models.CategoryPatch{Description: models.String("Music night")})
		if err != nil || updated.Description != "Music night" {
			t.Errorf("unexpected update %+v, err %v", updated, err)
		}

		if err := g.DeleteCategory(ctx, "1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if len(ts.store.AlbumsByCategory("1")) != 0 {
			t.Error("expected albums of deleted category to be gone")
		}
		if _, err := ts.store.Image("1"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected cascade to remove images, got %v", err)
		}
		if got := ts.store.Categories()[0]; got.ID != "2" || got.Order != 1 {
			t.Errorf("expected gap to close, got %+v", got)
		}
	})

	t.Run("Album Move Through Reorder", func(t *testing.T) {
		ts := newTestServer(t)
		g := ts.gallery(t)

		if err := g.ReorderAlbum(ctx, "2", "2", 1); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		got := ts.store.AlbumsByCategory("2")
		if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" || got[1].Order != 2 {
			t.Errorf("unexpected albums %+v", got)
		}
		if left := ts.store.AlbumsByCategory("1"); len(left) != 1 || left[0].Order != 1 {
			t.Errorf("expected old category to close the gap, got %+v", left)
		}
	})

	t.Run("Image Upload", func(t *testing.T) {
		ts := newTestServer(t)
		g := ts.gallery(t)

		file := pngFile(t, "couple.png", 3, 2)
		img, err := g.UploadImage(ctx, models.ImageUpload{AlbumID: "1", Alt: "Couple", File: &file})
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if img.Order != 3 || img.Width != 3 || img.Height != 2 || !strings.Contains(img.URL, "/uploads/"+img.ID) {
			t.Errorf("unexpected image %+v", img)
		}

		resp, err := http.Get(img.URL)
		if err != nil {
			t.Fatalf("failed to fetch upload: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
			t.Errorf("unexpected upload response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
		}

		byURL, err := g.UploadImage(ctx, models.ImageUpload{AlbumID: "1", URL: "https://cdn.example.com/a.jpg"})
		if err != nil || byURL.Order != 4 || byURL.URL != "https://cdn.example.com/a.jpg" {
			t.Errorf("unexpected url image %+v, err %v", byURL, err)
		}

		if err := g.DeleteImage(ctx, img.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		resp2, err := http.Get(img.URL)
		if err != nil {
			t.Fatalf("failed to fetch upload: %v", err)
		}
		resp2.Body.Close()
		if resp2.StatusCode != http.StatusNotFound {
			t.Errorf("expected deleted upload to be gone, got %d", resp2.StatusCode)
		}
	})

	t.Run("Upload Rejects Non Image", func(t *testing.T) {
		ts := newTestServer(t)
		g := ts.gallery(t)

		file := models.UploadFile{Name: "notes.txt", Data: []byte("just text")}
		_, err := g.UploadImage(ctx, models.ImageUpload{AlbumID: "1", File: &file})
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Status != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("Bulk Upload", func(t *testing.T) {
		ts := newTestServer(t)
		g := ts.gallery(t)

		files := []models.UploadFile{pngFile(t, "a.png", 1, 1), pngFile(t, "b.png", 2, 2)}
		imgs, err := g.BulkUpload(ctx, "2", files)
		if err != nil {
			t.Fatalf("bulk upload failed: %v", err)
		}
		if len(imgs) != 2 || imgs[0].Order != 2 || imgs[1].Order != 3 || imgs[1].Alt != "b.png" {
			t.Errorf("unexpected images %+v", imgs)
		}
	})

	t.Run("Image Reorder And Move", func(t *testing.T) {
		ts := newTestServer(t)
		g := ts.gallery(t)

		if err := g.ReorderImage(ctx, "2", "1", 1); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		got := ts.store.ImagesByAlbum("1")
		if got[0].ID != "2" || got[1].ID != "1" {
			t.Errorf("unexpected images %+v", got)
		}

		moved, err := g.UpdateImage(ctx, "2", models.ImagePatch{AlbumID: models.String("2")})
		if err != nil || moved.AlbumID != "2" || moved.Order != 2 {
			t.Errorf("unexpected move %+v, err %v", moved, err)
		}
	})
}

func TestSyncAgainstServer(t *testing.T) {
	ts := newTestServer(t)
	logger := shared.NewLogger(io.Discard)
	notices := make(chan tasks.Notice, 64)

	adapter, err := tasks.NewSyncAdapter(tasks.SyncOpts{
		Store:   store.New(logger),
		Remote:  ts.gallery(t),
		Logger:  logger,
		Notices: notices,
	})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := adapter.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	local := adapter.Store()
	if got := categoryIDs(local.Categories()); got != "1,2,3,4,5" {
		t.Fatalf("expected refreshed categories, got %s", got)
	}

	if _, err := adapter.MoveCategory("3", 1); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if _, err := adapter.MoveCategory("5", 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	c, err := adapter.AddCategory(models.Category{Name: "Sangeet"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := adapter.DeleteAlbum("1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := adapter.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	for {
		select {
		case n := <-notices:
			if n.Level == tasks.LevelError {
				t.Errorf("unexpected error notice: %s", n)
			}
			continue
		default:
		}
		break
	}

	remote, localCats := ts.store.Categories(), local.Categories()
	if categoryIDs(remote) != categoryIDs(localCats) {
		t.Errorf("local %s and remote %s diverged", categoryIDs(localCats), categoryIDs(remote))
	}
	if !strings.HasPrefix(categoryIDs(remote), "3,5,1,2,4,") {
		t.Errorf("unexpected remote order %s", categoryIDs(remote))
	}
	if _, err := local.Category(c.ID); err == nil {
		t.Error("expected local id to be replaced by the server id")
	}
	if got := ts.store.AlbumsByCategory("1"); len(got) != 1 || got[0].ID != "2" || got[0].Order != 1 {
		t.Errorf("unexpected remote albums %+v", got)
	}
}
