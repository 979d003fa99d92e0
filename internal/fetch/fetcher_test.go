package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestFetch tests the Fetch method against local HTTP servers.
func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and metadata", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer server.Close()

		res, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if res.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", res.StatusCode)
		}
		if string(res.Body) != "<html><body>ok</body></html>" {
			t.Errorf("unexpected body %q", res.Body)
		}
		if res.URL != server.URL {
			t.Errorf("expected URL %q, got %q", server.URL, res.URL)
		}
		if res.Hash == "" {
			t.Error("expected hash to be computed")
		}
		if res.FetchedAt.IsZero() {
			t.Error("expected FetchedAt to be set")
		}
	})

	t.Run("sends user agent and accept headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
		}))
		defer server.Close()

		f := New(WithHTTPClient(server.Client()), WithUserAgent("planet-test/1.0"))
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if gotUA != "planet-test/1.0" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
		if !strings.Contains(gotAccept, "application/rss+xml") {
			t.Errorf("expected accept header to include rss, got %q", gotAccept)
		}
	})

	t.Run("error status is reported", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("redirect status below 400 is followed", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		res, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL+"/old")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(res.Body) != "moved" {
			t.Errorf("unexpected body %q", res.Body)
		}
	})

	t.Run("transport error is returned", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		if _, err := New().Fetch(context.Background(), url); err == nil {
			t.Error("expected an error for a closed server")
		}
	})

	t.Run("latin-1 HTML is decoded to UTF-8", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<p>Plan\xe8te</p>"))
		}))
		defer server.Close()

		res, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(res.Body) != "<p>Planète</p>" {
			t.Errorf("expected decoded body, got %q", res.Body)
		}
	})

	t.Run("XML feed is returned untouched", func(t *testing.T) {
		t.Parallel()

		raw := "<?xml version=\"1.0\" encoding=\"iso-8859-1\"?><rss><title>Plan\xe8te</title></rss>"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(raw))
		}))
		defer server.Close()

		res, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(res.Body) != raw {
			t.Errorf("expected raw body, got %q", res.Body)
		}
	})

	t.Run("body over max size is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		_, err := New(WithHTTPClient(server.Client()), WithMaxBodySize(10)).Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Fatalf("expected ErrBodyTooLarge, got %v", err)
		}
	})

	t.Run("body of exactly max size is accepted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 10)))
		}))
		defer server.Close()

		res, err := New(WithHTTPClient(server.Client()), WithMaxBodySize(10)).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(res.Body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(res.Body))
		}
	})

	t.Run("max size above the default is honoured", func(t *testing.T) {
		t.Parallel()

		page := "<html><body>" + strings.Repeat("x", 6<<20) + "</body></html>"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		res, err := New(WithHTTPClient(server.Client()), WithMaxBodySize(10<<20)).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(res.Body) != len(page) {
			t.Errorf("expected %d bytes, got %d", len(page), len(res.Body))
		}
		if !strings.HasSuffix(string(res.Body), "</body></html>") {
			t.Error("page was cut")
		}
	})

	t.Run("default max size rejects larger pages", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("x", 6<<20)))
		}))
		defer server.Close()

		_, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Fatalf("expected ErrBodyTooLarge, got %v", err)
		}
	})

	t.Run("timeout aborts slow servers", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		f := New(WithHTTPClient(&http.Client{}), WithTimeout(50*time.Millisecond))
		if _, err := f.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected timeout error")
		}
	})

	t.Run("cancelled context aborts the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := New(WithHTTPClient(server.Client())).Fetch(ctx, server.URL); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

// TestNew tests option handling.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("zero values keep defaults", func(t *testing.T) {
		t.Parallel()

		f := New(WithUserAgent(""), WithMaxBodySize(0))
		if f.userAgent == "" {
			t.Error("expected default user agent")
		}
		if f.maxBodySize <= 0 {
			t.Error("expected default max body size")
		}
	})

	t.Run("zero timeout disables the client timeout", func(t *testing.T) {
		t.Parallel()

		f := New(WithTimeout(0))
		if f.client.Timeout != 0 {
			t.Errorf("expected no timeout, got %v", f.client.Timeout)
		}
	})
}
