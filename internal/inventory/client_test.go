package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"project": "numpy",
			"version": "2.1",
			"entries": {
				"numpy.ndarray": "reference/generated/numpy.ndarray.html",
				"numpy.dtype": "reference/generated/numpy.dtype.html"
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	defer c.Close()

	inv, err := c.Fetch(context.Background(), srv.URL+"/objects.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Project != "numpy" || inv.Version != "2.1" {
		t.Errorf("unexpected header: %+v", inv)
	}
	if len(inv.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(inv.Entries))
	}
	if inv.Entries["numpy.ndarray"] != "reference/generated/numpy.ndarray.html" {
		t.Errorf("unexpected entry: %q", inv.Entries["numpy.ndarray"])
	}
}

func TestClient_FetchRetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(5 * time.Second)
		_, err := c.Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			t.Errorf("status %d: expected RetryableError, got %v", status, err)
		} else if re.StatusCode != status {
			t.Errorf("expected status %d in error, got %d", status, re.StatusCode)
		}

		c.Close()
		srv.Close()
	}
}

func TestClient_FetchNotFoundIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	defer c.Close()

	_, err := c.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var re *RetryableError
	if errors.As(err, &re) {
		t.Errorf("404 should not be retryable, got %v", err)
	}
}

func TestClient_FetchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	defer c.Close()

	if _, err := c.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSet_AddResolvesAgainstBase(t *testing.T) {
	s := NewSet()
	inv := &Inventory{
		Project: "numpy",
		Entries: map[string]string{
			"numpy.ndarray": "reference/generated/numpy.ndarray.html",
			"numpy.abs":     "/absolute/numpy.abs.html",
		},
	}
	if err := s.Add("https://numpy.org/doc/stable/objects.json", inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := s.Resolve("numpy.ndarray")
	if !ok {
		t.Fatal("expected numpy.ndarray to resolve")
	}
	want := "https://numpy.org/doc/stable/reference/generated/numpy.ndarray.html"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got, _ = s.Resolve("numpy.abs")
	if got != "https://numpy.org/absolute/numpy.abs.html" {
		t.Errorf("unexpected absolute-path resolution: %q", got)
	}
}

func TestSet_FirstMappingWins(t *testing.T) {
	s := NewSet()
	s.Add("https://a.example/objects.json", &Inventory{
		Entries: map[string]string{"typing.Optional": "typing.html#Optional"},
	})
	s.Add("https://b.example/objects.json", &Inventory{
		Entries: map[string]string{"typing.Optional": "other.html"},
	})

	got, _ := s.Resolve("typing.Optional")
	if got != "https://a.example/typing.html#Optional" {
		t.Errorf("expected earlier inventory to win, got %q", got)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestSet_ResolveMissing(t *testing.T) {
	s := NewSet()
	if _, ok := s.Resolve("nobody.home"); ok {
		t.Error("expected miss for unknown fqn")
	}
}
