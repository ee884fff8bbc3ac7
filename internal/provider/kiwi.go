package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"flightwatch/internal/models"
)

const (
	defaultBaseURL = "https://kiwi-com-cheap-flights.p.rapidapi.com"
	rapidAPIHost   = "kiwi-com-cheap-flights.p.rapidapi.com"

	defaultTimeout = 30 * time.Second
	defaultLimit   = 10
)

// KiwiClient queries the Kiwi.com cheap-flights API via RapidAPI.
// Transient failures and rate limiting are retried with exponential backoff
// inside a single Search call; whatever survives the retries is returned to
// the caller as a provider error.
type KiwiClient struct {
	rc      *resty.Client
	apiKey  string
	retries uint64
	backoff time.Duration
}

// KiwiOption customizes the client (base URL and timing knobs, mostly for
// tests).
type KiwiOption func(*KiwiClient)

func WithBaseURL(url string) KiwiOption {
	return func(c *KiwiClient) { c.rc.SetBaseURL(strings.TrimRight(url, "/")) }
}

func WithTimeout(d time.Duration) KiwiOption {
	return func(c *KiwiClient) { c.rc.SetTimeout(d) }
}

func WithRetries(n uint64, backoff time.Duration) KiwiOption {
	return func(c *KiwiClient) {
		c.retries = n
		c.backoff = backoff
	}
}

func NewKiwiClient(apiKey string, opts ...KiwiOption) *KiwiClient {
	rc := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(defaultTimeout).
		SetHeader("x-rapidapi-host", rapidAPIHost).
		SetHeader("x-rapidapi-key", apiKey)

	c := &KiwiClient{
		rc:      rc,
		apiKey:  apiKey,
		retries: 2,
		backoff: 400 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *KiwiClient) Search(ctx context.Context, q Query) ([]models.Offer, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: RapidAPI key is not configured", ErrAuthRequired)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	params := map[string]string{
		"source":           kiwiLocation(q.Origin),
		"destination":      kiwiLocation(q.Destination),
		"currency":         "eur",
		"locale":           "es",
		"sortBy":           "PRICE",
		"transportTypes":   "FLIGHT",
		"contentProviders": "KIWI",
		"limit":            strconv.Itoa(limit),
	}
	if !q.DateFrom.IsZero() {
		params["outboundDepartureDateStart"] = q.DateFrom.Format("2006-01-02") + "T00:00:00"
		params["outboundDepartureDateEnd"] = q.DateFrom.Format("2006-01-02") + "T23:59:59"
	}
	if q.DateTo != nil {
		params["inboundDepartureDateStart"] = q.DateTo.Format("2006-01-02") + "T00:00:00"
		params["inboundDepartureDateEnd"] = q.DateTo.Format("2006-01-02") + "T23:59:59"
	}
	if q.MaxStops != nil {
		params["maxStopsCount"] = strconv.Itoa(*q.MaxStops)
	}

	var payload kiwiResponse
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.fetchOnce(ctx, params, &payload)
	})
	if err != nil {
		return nil, err
	}

	offers := filterAirlines(q, mapItineraries(q, payload.Itineraries))
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].PriceEuros < offers[j].PriceEuros
	})
	if len(offers) > limit {
		offers = offers[:limit]
	}
	return offers, nil
}

func (c *KiwiClient) fetchOnce(ctx context.Context, params map[string]string, out *kiwiResponse) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get("/round-trip")

	if err != nil {
		return retry.RetryableError(fmt.Errorf("%w: %v", ErrTransient, err))
	}

	status := resp.StatusCode()
	switch {
	case status == 200:
		return nil
	case status == 401 || status == 403:
		return fmt.Errorf("%w: kiwi request failed: %s", ErrAuthRequired, resp.Status())
	case status == 429:
		return retry.RetryableError(fmt.Errorf("%w: kiwi request failed: %s", ErrRateLimited, resp.Status()))
	case status >= 500:
		return retry.RetryableError(fmt.Errorf("%w: kiwi request failed: %s", ErrTransient, resp.Status()))
	default:
		return fmt.Errorf("kiwi request failed: %s", resp.Status())
	}
}

type kiwiResponse struct {
	Itineraries []kiwiItinerary `json:"itineraries"`
}

type kiwiItinerary struct {
	ID    string `json:"id"`
	Price struct {
		Amount string `json:"amount"`
	} `json:"price"`
	Outbound struct {
		SectorSegments []struct {
			Segment kiwiSegment `json:"segment"`
		} `json:"sectorSegments"`
	} `json:"outbound"`
	BookingOptions struct {
		Edges []struct {
			Node struct {
				BookingURL string `json:"bookingUrl"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"bookingOptions"`
}

type kiwiSegment struct {
	Code   string `json:"code"`
	Source struct {
		LocalTime string `json:"localTime"`
		City      struct {
			Name string `json:"name"`
		} `json:"city"`
	} `json:"source"`
	Destination struct {
		LocalTime string `json:"localTime"`
		City      struct {
			Name string `json:"name"`
		} `json:"city"`
	} `json:"destination"`
	Carrier struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"carrier"`
	Duration   int    `json:"duration"`
	CabinClass string `json:"cabinClass"`
}

func mapItineraries(q Query, itineraries []kiwiItinerary) []models.Offer {
	offers := make([]models.Offer, 0, len(itineraries))
	now := time.Now().UTC()

	for _, it := range itineraries {
		segments := it.Outbound.SectorSegments
		if len(segments) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(it.Price.Amount, 64)
		if err != nil {
			continue
		}
		first := segments[0].Segment
		last := segments[len(segments)-1].Segment

		offer := models.Offer{
			ID:            "kiwi_" + it.ID,
			PriceEuros:    price,
			Origin:        q.Origin,
			Destination:   q.Destination,
			DepartureTime: first.Source.LocalTime,
			ArrivalTime:   last.Destination.LocalTime,
			Airlines:      []string{carrierName(first)},
			Stops:         len(segments) - 1,
			Duration:      formatDuration(first.Duration),
			BookingLink:   bookingLink(it),
			CabinClass:    first.CabinClass,
			FlightNumber:  first.Carrier.Code + first.Code,
			FoundAt:       now,
		}
		offers = append(offers, offer)
	}
	return offers
}

// filterAirlines applies the alert's optional airline constraints. The Kiwi
// endpoint has no carrier parameter, so the lists are enforced on the
// returned itineraries. Matching is case-insensitive on carrier name.
func filterAirlines(q Query, offers []models.Offer) []models.Offer {
	if len(q.AirlinesInclude) == 0 && len(q.AirlinesExclude) == 0 {
		return offers
	}

	matches := func(list []string, airlines []string) bool {
		for _, want := range list {
			for _, got := range airlines {
				if strings.EqualFold(want, got) {
					return true
				}
			}
		}
		return false
	}

	filtered := offers[:0]
	for _, o := range offers {
		if len(q.AirlinesInclude) > 0 && !matches(q.AirlinesInclude, o.Airlines) {
			continue
		}
		if len(q.AirlinesExclude) > 0 && matches(q.AirlinesExclude, o.Airlines) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

func carrierName(s kiwiSegment) string {
	if s.Carrier.Name == "" {
		return "Unknown"
	}
	return s.Carrier.Name
}

func bookingLink(it kiwiItinerary) string {
	if len(it.BookingOptions.Edges) > 0 {
		if url := it.BookingOptions.Edges[0].Node.BookingURL; url != "" {
			return "https://kiwi.com" + url
		}
	}
	return "https://kiwi.com"
}

func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("PT%dH%dM", hours, minutes)
}

// kiwiLocation translates an IATA airport code to the location format the
// Kiwi API expects. Unknown codes fall back to a generic City slug.
func kiwiLocation(code string) string {
	if loc, ok := kiwiLocations[strings.ToUpper(code)]; ok {
		return loc
	}
	return "City:" + strings.ToLower(code)
}

var kiwiLocations = map[string]string{
	"MAD": "City:madrid_es",
	"BCN": "City:barcelona_es",
	"LHR": "City:london_gb",
	"CDG": "City:paris_fr",
	"FCO": "City:rome_it",
	"AMS": "City:amsterdam_nl",
	"FRA": "City:frankfurt_de",
	"MUC": "City:munich_de",
	"VIE": "City:vienna_at",
	"ZUR": "City:zurich_ch",
	"JFK": "City:new-york_us",
	"LAX": "City:los-angeles_us",
	"ORD": "City:chicago_us",
	"MIA": "City:miami_us",
	"DXB": "City:dubai_ae",
	"SIN": "City:singapore_sg",
	"NRT": "City:tokyo_jp",
	"ICN": "City:seoul_kr",
	"PEK": "City:beijing_cn",
	"SYD": "City:sydney_au",
	"MEL": "City:melbourne_au",
	"YYZ": "City:toronto_ca",
	"YVR": "City:vancouver_ca",
	"GRU": "City:sao-paulo_br",
	"GIG": "City:rio-de-janeiro_br",
	"BOG": "City:bogota_co",
	"LIM": "City:lima_pe",
	"SCL": "City:santiago_cl",
	"EZE": "City:buenos-aires_ar",
}
