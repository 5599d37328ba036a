package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bmc-rentportal/internal/adapters/storage"
	"bmc-rentportal/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *storage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	client := New(config.IdentityConfig{
		BaseURL: srv.URL,
		AppID:   "test-app",
	}, store)
	return client, store
}

func TestSignInSendsFixedHeaders(t *testing.T) {
	var gotAppID, gotAccept string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAppID = r.Header.Get("application_id")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"accessToken":"at"}`))
	})
	client, _ := newTestClient(t, handler)

	if _, err := client.SignIn(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if gotAppID != "test-app" {
		t.Fatalf("application_id header missing, got %q", gotAppID)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept header missing, got %q", gotAccept)
	}
}

func TestSignInConnectivityError(t *testing.T) {
	store := storage.NewMemoryStore()
	client := New(config.IdentityConfig{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		AppID:   "test-app",
	}, store)

	_, err := client.SignIn(context.Background(), "a@b.com", "pw")
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
}

func TestSignInStatusError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Access denied"})
	})
	client, _ := newTestClient(t, handler)

	_, err := client.SignIn(context.Background(), "a@b.com", "pw")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusForbidden || statusErr.Message != "Access denied" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestUnauthorizedTriggersSingleRefreshAndReplay(t *testing.T) {
	var refreshCalls, signInCalls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			atomic.AddInt32(&refreshCalls, 1)
			var req struct {
				RefreshToken string `json:"refreshToken"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.RefreshToken != "refresh-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new-token"})
		case "/sign-in":
			atomic.AddInt32(&signInCalls, 1)
			if r.Header.Get("Authorization") != "Bearer new-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"accessToken":"at"}`))
		default:
			http.NotFound(w, r)
		}
	})
	client, store := newTestClient(t, handler)
	ctx := context.Background()

	store.Set(ctx, storage.KeyToken, "stale-token")
	store.Set(ctx, storage.KeyRefreshToken, "refresh-1")

	body, err := client.SignIn(ctx, "a@b.com", "pw")
	if err != nil {
		t.Fatalf("expected refresh-and-replay to succeed, got %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected response body from replay")
	}

	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", n)
	}
	if n := atomic.LoadInt32(&signInCalls); n != 2 {
		t.Fatalf("expected original request plus one replay, got %d", n)
	}

	// Only the access token key is rewritten
	if token, _ := store.Get(ctx, storage.KeyToken); token != "new-token" {
		t.Fatalf("access token not rewritten, got %q", token)
	}
	if refresh, _ := store.Get(ctx, storage.KeyRefreshToken); refresh != "refresh-1" {
		t.Fatalf("refresh token must be untouched, got %q", refresh)
	}
}

func TestReplayUnauthorizedDoesNotRefreshTwice(t *testing.T) {
	var refreshCalls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new-token"})
		default:
			// Provider keeps rejecting even the refreshed token
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	client, store := newTestClient(t, handler)
	ctx := context.Background()

	store.Set(ctx, storage.KeyToken, "stale-token")
	store.Set(ctx, storage.KeyRefreshToken, "refresh-1")

	_, err := client.SignIn(ctx, "a@b.com", "pw")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError after single retry, got %v", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Fatalf("the replay's 401 must not trigger another refresh, got %d calls", n)
	}
}

func TestRefreshFailureExpiresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, store := newTestClient(t, handler)
	ctx := context.Background()

	store.Set(ctx, storage.KeyToken, "stale-token")
	store.Set(ctx, storage.KeyRefreshToken, "dead-refresh")

	var expired bool
	client.SetSessionExpiredHandler(func(ctx context.Context) {
		expired = true
	})

	_, err := client.SignIn(ctx, "a@b.com", "pw")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !expired {
		t.Fatal("session expired handler must run when refresh fails")
	}
}

func TestUnauthorizedWithoutRefreshTokenIsStatusError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	})
	client, _ := newTestClient(t, handler)

	_, err := client.SignIn(context.Background(), "a@b.com", "pw")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected plain 401 StatusError, got %v", err)
	}
}

func TestVerifyToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify_token" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") == "Bearer good" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, _ := newTestClient(t, handler)
	ctx := context.Background()

	if err := client.VerifyToken(ctx, "good"); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if err := client.VerifyToken(ctx, "bad"); err == nil {
		t.Fatal("invalid token accepted")
	}
}
