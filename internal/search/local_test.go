package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/backend"
	"github.com/idilsaglam/tripmap/internal/logger"
)

func newLocalClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := backend.New(srv.URL, srv.Client(), nil, logger.Nop())
	return NewClient(NewLocal(srv.URL+"/api/groups/7/places/search/", api), logger.Nop())
}

func TestLocalSearchExistingPlace(t *testing.T) {
	c := newLocalClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("mode"); got != "name" {
			t.Errorf("expected mode=name, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "Seoul Tower" {
			t.Errorf("expected q=Seoul Tower, got %q", got)
		}
		if got := r.Header.Get(backend.HeaderAJAX); got != "XMLHttpRequest" {
			t.Errorf("expected AJAX header, got %q", got)
		}
		_, _ = w.Write([]byte(`{"exists": true, "place": {"id": 42, "name": "N Seoul Tower", "address": "Seoul", "lat": 37.55, "lng": 126.98}, "message": "Already saved"}`))
	})

	res, err := c.Search(context.Background(), "Seoul Tower", ModeName, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Existing {
		t.Fatalf("expected Existing")
	}
	if len(res.Places) != 1 || res.Places[0].ID != "42" {
		t.Fatalf("expected one place with id 42, got %+v", res.Places)
	}
	if res.Pagination != nil {
		t.Fatalf("local search must not paginate")
	}
	if res.Message != "Already saved" {
		t.Fatalf("expected server message, got %q", res.Message)
	}
}

func TestLocalSearchSuggestion(t *testing.T) {
	c := newLocalClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"exists": false, "lat": 37.5, "lng": 127.0}`))
	})

	res, err := c.Search(context.Background(), "Gangnam", ModeAddress, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Places) != 1 {
		t.Fatalf("expected one suggested place, got %d", len(res.Places))
	}
	p := res.Places[0]
	if p.ID != "" || p.Name != "Gangnam" || p.Lat != 37.5 || p.Lng != 127.0 {
		t.Fatalf("unexpected suggestion %+v", p)
	}
	if res.Message != "Not saved yet: Gangnam" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestLocalSearchNothing(t *testing.T) {
	c := newLocalClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"exists": false}`))
	})

	res, err := c.Search(context.Background(), "nowhere", ModeName, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Empty() || res.Message != apperr.MsgNoResults {
		t.Fatalf("expected empty result with %q, got %+v", apperr.MsgNoResults, res)
	}
}

func TestLocalSearchServerError(t *testing.T) {
	c := newLocalClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Query too short"}`))
	})

	_, err := c.Search(context.Background(), "a", ModeName, 1)
	if !apperr.Is(err, apperr.KindProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if got := apperr.UserMessage(err); got != "Query too short" {
		t.Fatalf("expected server error text, got %q", got)
	}
}
