package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/model"
)

const keywordBody = `{
  "meta": {"total_count": 12, "pageable_count": 12, "is_end": false},
  "documents": [
    {
      "id": "8295914",
      "place_name": "N Seoul Tower",
      "category_group_code": "AT4",
      "phone": "02-3455-9277",
      "address_name": "Yongsan-dong 2-ga San 1-3",
      "road_address_name": "105 Namsangongwon-gil",
      "x": "126.98823",
      "y": "37.55128",
      "place_url": "http://place.map.kakao.com/8295914"
    },
    {
      "id": "2",
      "place_name": "No Road Address",
      "phone": "",
      "address_name": "Jung-gu 1",
      "road_address_name": "",
      "x": "126.9",
      "y": "37.5"
    },
    {
      "id": "3",
      "place_name": "Broken",
      "x": "",
      "y": "abc"
    }
  ]
}`

func newKakaoServer(t *testing.T, hits *int32, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	k := NewKakao(srv.URL, "test-key", 5, 0, srv.Client(), logger.Nop())
	return NewClient(k, logger.Nop()), srv
}

func TestKakaoKeywordSearchNormalizesDocuments(t *testing.T) {
	var hits int32
	c, _ := newKakaoServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != keywordPath {
			t.Errorf("expected path %s, got %s", keywordPath, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "KakaoAK test-key" {
			t.Errorf("expected KakaoAK auth header, got %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "N Seoul Tower" {
			t.Errorf("expected normalized query, got %q", got)
		}
		if got := r.URL.Query().Get("size"); got != "5" {
			t.Errorf("expected size 5, got %q", got)
		}
		_, _ = w.Write([]byte(keywordBody))
	})

	res, err := c.Search(context.Background(), "  N   Seoul Tower ", ModeName, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Places) != 2 {
		t.Fatalf("expected 2 places (one without coordinates skipped), got %d", len(res.Places))
	}

	tower := res.Places[0]
	if tower.ID != "8295914" || tower.Name != "N Seoul Tower" {
		t.Fatalf("unexpected place identity: %+v", tower)
	}
	if tower.Address != "105 Namsangongwon-gil" {
		t.Fatalf("expected road address preferred, got %q", tower.Address)
	}
	if tower.Lat != 37.55128 || tower.Lng != 126.98823 {
		t.Fatalf("expected lat=y lng=x, got %v,%v", tower.Lat, tower.Lng)
	}
	if model.Deref(tower.Category) != "AT4" {
		t.Fatalf("expected category AT4, got %q", model.Deref(tower.Category))
	}
	if model.Deref(tower.URL) != "http://place.map.kakao.com/8295914" {
		t.Fatalf("unexpected url %q", model.Deref(tower.URL))
	}
	if tower.Phone == nil {
		t.Fatalf("expected phone to be kept")
	}

	other := res.Places[1]
	if other.Address != "Jung-gu 1" {
		t.Fatalf("expected lot address fallback, got %q", other.Address)
	}
	if other.Phone != nil || other.URL != nil || other.Category != nil {
		t.Fatalf("expected absent optional fields, got %+v", other)
	}

	if res.Pagination == nil {
		t.Fatalf("expected pagination")
	}
	if res.Pagination.Current != 1 || res.Pagination.Last != 3 {
		t.Fatalf("expected page 1 of 3, got %d of %d", res.Pagination.Current, res.Pagination.Last)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected 1 request, got %d", n)
	}
}

func TestKakaoGotoPageRequestsThatPage(t *testing.T) {
	var hits int32
	var lastPageParam atomic.Value
	c, _ := newKakaoServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		lastPageParam.Store(r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(keywordBody))
	})

	res, err := c.Search(context.Background(), "tower", ModeName, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next, err := res.Pagination.GotoPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := lastPageParam.Load().(string); got != "2" {
		t.Fatalf("expected page=2, got %q", got)
	}
	if next.Pagination.Current != 2 {
		t.Fatalf("expected current page 2, got %d", next.Pagination.Current)
	}
	if next.Query.Text != "tower" {
		t.Fatalf("expected query carried over, got %q", next.Query.Text)
	}

	if _, err := res.Pagination.GotoPage(context.Background(), 9); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for out-of-range page, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("expected 2 requests, got %d", n)
	}
}

func TestKakaoAddressSearch(t *testing.T) {
	var hits int32
	c, _ := newKakaoServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != addressPath {
			t.Errorf("expected path %s, got %s", addressPath, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
		  "meta": {"total_count": 1, "pageable_count": 1, "is_end": true},
		  "documents": [{
		    "address_name": "Seoul Yongsan-gu Namsangongwon-gil 105",
		    "address_type": "ROAD_ADDR",
		    "x": "126.988", "y": "37.551",
		    "address": {"address_name": "Yongsan-dong 2-ga San 1-3"},
		    "road_address": {"address_name": "Namsangongwon-gil 105", "building_name": "N Seoul Tower"}
		  }]
		}`))
	})

	res, err := c.Search(context.Background(), "Namsangongwon-gil 105", ModeAddress, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(res.Places))
	}
	p := res.Places[0]
	if p.Name != "N Seoul Tower" {
		t.Fatalf("expected building name as title, got %q", p.Name)
	}
	if p.Address != "Namsangongwon-gil 105" {
		t.Fatalf("expected road address, got %q", p.Address)
	}
	if p.Category != nil {
		t.Fatalf("expected no category for an address match, got %q", *p.Category)
	}
	if res.Pagination == nil || res.Pagination.Last != 1 {
		t.Fatalf("expected single page, got %+v", res.Pagination)
	}
}

func TestKakaoEmptyResult(t *testing.T) {
	var hits int32
	c, _ := newKakaoServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta": {"total_count": 0, "pageable_count": 0, "is_end": true}, "documents": []}`))
	})

	res, err := c.Search(context.Background(), "zzzz", ModeName, 1)
	if err != nil {
		t.Fatalf("expected zero results to be a success, got %v", err)
	}
	if !res.Empty() {
		t.Fatalf("expected empty result, got %d places", len(res.Places))
	}
	if res.Pagination != nil {
		t.Fatalf("expected no pagination for an empty result")
	}
	if res.Message != apperr.MsgNoResults {
		t.Fatalf("expected %q, got %q", apperr.MsgNoResults, res.Message)
	}
}

func TestKakaoProviderError(t *testing.T) {
	var hits int32
	c, _ := newKakaoServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorType": "AccessDeniedError", "message": "wrong key"}`))
	})

	_, err := c.Search(context.Background(), "tower", ModeName, 1)
	if !apperr.Is(err, apperr.KindProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if got := apperr.UserMessage(err); got != apperr.MsgSearchFailed {
		t.Fatalf("expected %q, got %q", apperr.MsgSearchFailed, got)
	}
}

func TestKakaoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(NewKakao(url, "k", 5, 0, nil, logger.Nop()), logger.Nop())
	_, err := c.Search(context.Background(), "tower", ModeName, 1)
	if !apperr.Is(err, apperr.KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestEmptyQueryNeverReachesProvider(t *testing.T) {
	var hits int32
	c, _ := newKakaoServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(keywordBody))
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := c.Search(context.Background(), q, ModeName, 1)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("query %q: expected validation error, got %v", q, err)
		}
		if got := apperr.UserMessage(err); got != apperr.MsgEmptyQuery {
			t.Fatalf("query %q: expected %q, got %q", q, apperr.MsgEmptyQuery, got)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("expected no provider calls, got %d", n)
	}
}
