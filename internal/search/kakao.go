package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/idilsaglam/tripmap/internal/apperr"
	"github.com/idilsaglam/tripmap/internal/logger"
	"github.com/idilsaglam/tripmap/internal/model"
)

const (
	keywordPath = "/v2/local/search/keyword.json"
	addressPath = "/v2/local/search/address.json"

	// Kakao serves at most 45 pages per query.
	kakaoMaxPage = 45
	kakaoMaxSize = 15
)

// Kakao searches the Kakao Local REST API: keyword search for ModeName,
// address search (geocoding) for ModeAddress.
type Kakao struct {
	baseURL    string
	restKey    string
	size       int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewKakao creates the provider. rps <= 0 disables rate limiting.
func NewKakao(baseURL, restKey string, size int, rps float64, httpClient *http.Client, log *logger.Logger) *Kakao {
	if size < 1 || size > kakaoMaxSize {
		size = 5
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Kakao{
		baseURL:    baseURL,
		restKey:    restKey,
		size:       size,
		httpClient: httpClient,
		limiter:    limiter,
		log:        log,
	}
}

func (k *Kakao) Name() string { return "kakao" }

func (k *Kakao) Search(ctx context.Context, q Query) (*Result, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > kakaoMaxPage {
		page = kakaoMaxPage
	}
	path := keywordPath
	if q.Mode == ModeAddress {
		path = addressPath
	}
	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(k.size))
	reqURL := fmt.Sprintf("%s%s?%s", k.baseURL, path, params.Encode())

	if err := k.limiter.Wait(ctx); err != nil {
		return nil, apperr.Network(err).WithOp("kakao search")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Provider(apperr.MsgSearchFailed, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "KakaoAK "+k.restKey)
	req.Header.Set("Accept", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		k.log.Error("kakao request failed", "error", err)
		return nil, apperr.Network(err).WithOp("kakao search")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var kerr kakaoError
		_ = json.NewDecoder(resp.Body).Decode(&kerr)
		k.log.Error("kakao upstream error", "status", resp.StatusCode, "error_type", kerr.ErrorType, "message", kerr.Message)
		e := apperr.Provider(apperr.MsgSearchFailed, fmt.Errorf("status %d: %s %s", resp.StatusCode, kerr.ErrorType, kerr.Message))
		e.Status = resp.StatusCode
		return nil, e.WithOp("kakao search")
	}

	if q.Mode == ModeAddress {
		var payload kakaoAddressResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, apperr.Provider(apperr.MsgSearchFailed, fmt.Errorf("decode response: %w", err))
		}
		places := make([]model.Place, 0, len(payload.Documents))
		for _, d := range payload.Documents {
			if p, ok := d.toPlace(); ok {
				places = append(places, p)
			}
		}
		return k.result(places, page, payload.Meta), nil
	}

	var payload kakaoKeywordResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Provider(apperr.MsgSearchFailed, fmt.Errorf("decode response: %w", err))
	}
	places := make([]model.Place, 0, len(payload.Documents))
	for _, d := range payload.Documents {
		p, ok := d.toPlace()
		if !ok {
			k.log.Debug("kakao document without coordinates", "id", d.ID, "x", d.X, "y", d.Y)
			continue
		}
		places = append(places, p)
	}
	return k.result(places, page, payload.Meta), nil
}

func (k *Kakao) result(places []model.Place, page int, meta kakaoMeta) *Result {
	res := &Result{Places: places}
	if len(places) == 0 {
		return res
	}
	last := lastPage(meta.PageableCount, k.size)
	if last > kakaoMaxPage {
		last = kakaoMaxPage
	}
	if last < page {
		last = page
	}
	// the jump capability is bound by Client.run
	res.Pagination = NewPagination(page, last, nil)
	return res
}

type kakaoError struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

type kakaoMeta struct {
	TotalCount    int  `json:"total_count"`
	PageableCount int  `json:"pageable_count"`
	IsEnd         bool `json:"is_end"`
}

type kakaoKeywordResponse struct {
	Meta      kakaoMeta         `json:"meta"`
	Documents []kakaoPlaceEntry `json:"documents"`
}

// kakaoPlaceEntry mirrors one keyword search document.
type kakaoPlaceEntry struct {
	ID                string `json:"id"`
	PlaceName         string `json:"place_name"`
	CategoryName      string `json:"category_name"`
	CategoryGroupCode string `json:"category_group_code"`
	CategoryGroupName string `json:"category_group_name"`
	Phone             string `json:"phone"`
	AddressName       string `json:"address_name"`
	RoadAddressName   string `json:"road_address_name"`
	X                 string `json:"x"` // longitude
	Y                 string `json:"y"` // latitude
	PlaceURL          string `json:"place_url"`
	Distance          string `json:"distance"`
}

func (d kakaoPlaceEntry) toPlace() (model.Place, bool) {
	lat, okLat := parseCoord(d.Y)
	lng, okLng := parseCoord(d.X)
	if !okLat || !okLng {
		return model.Place{}, false
	}
	return model.Place{
		ID:       d.ID,
		Name:     d.PlaceName,
		Address:  firstNonEmpty(d.RoadAddressName, d.AddressName),
		Lat:      lat,
		Lng:      lng,
		Phone:    model.Opt(normalizePhone(d.Phone)),
		URL:      model.Opt(firstNonEmpty(d.PlaceURL)),
		Category: model.Opt(firstNonEmpty(d.CategoryGroupCode)),
	}, true
}

type kakaoAddressResponse struct {
	Meta      kakaoMeta           `json:"meta"`
	Documents []kakaoAddressEntry `json:"documents"`
}

// kakaoAddressEntry mirrors one address search document.
type kakaoAddressEntry struct {
	AddressName string `json:"address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
	Address     *struct {
		AddressName string `json:"address_name"`
	} `json:"address"`
	RoadAddress *struct {
		AddressName  string `json:"address_name"`
		BuildingName string `json:"building_name"`
	} `json:"road_address"`
}

func (d kakaoAddressEntry) toPlace() (model.Place, bool) {
	lat, okLat := parseCoord(d.Y)
	lng, okLng := parseCoord(d.X)
	if !okLat || !okLng {
		return model.Place{}, false
	}
	var road, building, lot string
	if d.RoadAddress != nil {
		road, building = d.RoadAddress.AddressName, d.RoadAddress.BuildingName
	}
	if d.Address != nil {
		lot = d.Address.AddressName
	}
	address := firstNonEmpty(road, lot, d.AddressName)
	return model.Place{
		Name:    firstNonEmpty(building, road, address),
		Address: address,
		Lat:     lat,
		Lng:     lng,
	}, true
}
