package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vowfolio/internal/shared"
	tu "github.com/desertthunder/vowfolio/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/api/", customClient)

			if srv.baseURL != "http://example.com/api" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.BaseURL() != "http://localhost:8000/api" {
				t.Errorf("expected default baseURL, got %s", srv.BaseURL())
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/api/categories" {
					t.Errorf("expected path '/api/categories', got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]map[string]any{{"_id": "c1", "order": 1}})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL+"/api", nil)
			resp, err := srv.Get(context.Background(), "/categories")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() {
				t.Errorf("expected OK, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected response to be JSON")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Custom-Header", "test-value")
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("unexpected body %q", resp.Body)
			}
			if resp.Headers.Get("X-Custom-Header") != "test-value" {
				t.Error("expected headers to be preserved")
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewAPIService("http://example.com", nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if _, err := NewAPIService(server.URL, nil).Get(ctx, "/test"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("Write Methods", func(t *testing.T) {
		tests := []struct {
			name   string
			method string
			call   func(*APIService) (*APIResponse, error)
			body   string
		}{
			{"Post", http.MethodPost, func(a *APIService) (*APIResponse, error) {
				return a.Post(context.Background(), "/x", []byte(`{"name":"a"}`))
			}, `{"name":"a"}`},
			{"Put", http.MethodPut, func(a *APIService) (*APIResponse, error) {
				return a.Put(context.Background(), "/x", []byte(`{"order":2}`))
			}, `{"order":2}`},
			{"Delete", http.MethodDelete, func(a *APIService) (*APIResponse, error) {
				return a.Delete(context.Background(), "/x")
			}, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Method != tt.method {
						t.Errorf("expected %s, got %s", tt.method, r.Method)
					}
					body, _ := io.ReadAll(r.Body)
					if string(body) != tt.body {
						t.Errorf("expected body %q, got %q", tt.body, body)
					}
					if tt.body != "" && r.Header.Get("Content-Type") != "application/json" {
						t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
					}
					w.WriteHeader(http.StatusNoContent)
				}))
				defer server.Close()

				resp, err := tt.call(NewAPIService(server.URL, nil))
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if resp.StatusCode != http.StatusNoContent {
					t.Errorf("expected 204, got %d", resp.StatusCode)
				}
			})
		}
	})

	t.Run("APIResponse Err", func(t *testing.T) {
		tests := []struct {
			name    string
			status  int
			body    string
			message string
		}{
			{"OK Is Nil", http.StatusOK, `{}`, ""},
			{"Message Key", http.StatusBadRequest, `{"message":"Name is required"}`, "Name is required"},
			{"Error Key", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
			{"Detail Key", http.StatusNotFound, `{"detail":"Not found"}`, "Not found"},
			{"Non-JSON Body", http.StatusBadGateway, `<html>`, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := &APIResponse{StatusCode: tt.status, Body: []byte(tt.body)}
				err := resp.Err(http.MethodPut, "/categories/c1")
				if tt.status < 300 {
					if err != nil {
						t.Errorf("expected nil, got %v", err)
					}
					return
				}

				var remote *shared.RemoteRequestError
				if !errors.As(err, &remote) {
					t.Fatalf("expected RemoteRequestError, got %T", err)
				}
				if remote.Status != tt.status || remote.Message != tt.message {
					t.Errorf("unexpected error %+v", remote)
				}
				if !shared.IsRemote(err) {
					t.Error("expected IsRemote to be true")
				}
			})
		}
	})
}

func TestNewAuthorizedClient(t *testing.T) {
	t.Run("Sends Bearer Token", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client := NewAuthorizedClient(context.Background(), "abc.def.ghi", 5*time.Second)
		if client.Timeout != 5*time.Second {
			t.Errorf("expected timeout to be kept, got %v", client.Timeout)
		}
		if _, err := NewAPIService(server.URL, client).Get(context.Background(), "/"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "Bearer abc.def.ghi" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})

	t.Run("Without Token", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client := NewAuthorizedClient(context.Background(), "", time.Second)
		if _, err := NewAPIService(server.URL, client).Get(context.Background(), "/"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "" {
			t.Errorf("expected no authorization header, got %q", got)
		}
	})
}
