package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// DefaultEndpoint is the Google Routes API route matrix endpoint.
const DefaultEndpoint = "https://routes.googleapis.com/distanceMatrix/v2:computeRouteMatrix"

const (
	travelModeDrive         = "DRIVE"
	routingPrefTrafficAware = "TRAFFIC_AWARE"

	retryBackoff = 2 * time.Second
)

// Client issues route matrix queries. The underlying HTTP client's
// connection pool is safe to share across concurrent batches.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	maxRetries int
}

// NewClient creates a matrix client. The timeout bounds each attempt
// end to end; a hung upstream must never stall a run indefinitely.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
	}
}

// WithEndpoint overrides the upstream endpoint (tests, proxies).
func (c *Client) WithEndpoint(endpoint string) *Client {
	if endpoint != "" {
		c.endpoint = endpoint
	}
	return c
}

// WithRetries enables up to n bounded retries with backoff per batch.
func (c *Client) WithRetries(n int) *Client {
	if n > 0 {
		c.maxRetries = n
	}
	return c
}

// ComputeRouteMatrix issues one matrix query for a batch, pairing
// origins and destinations positionally, with driving mode,
// traffic-aware routing and the given departure time. It returns the
// parsed result cells, or a single error covering the whole batch.
func (c *Client) ComputeRouteMatrix(ctx context.Context, origins, destinations []orb.Point, departure time.Time) ([]MatrixCell, error) {
	if len(origins) == 0 || len(origins) != len(destinations) {
		return nil, errors.Errorf("mismatched waypoint lists: %d origins, %d destinations", len(origins), len(destinations))
	}
	body, err := json.Marshal(buildRequest(origins, destinations, departure))
	if err != nil {
		return nil, errors.Wrap(err, "encode matrix request")
	}

	var cells []MatrixCell
	for attempt := 0; ; attempt++ {
		cells, err = c.post(ctx, body)
		if err == nil || attempt >= c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "matrix request aborted")
		case <-time.After(retryBackoff):
		}
	}
	return cells, err
}

func (c *Client) post(ctx context.Context, body []byte) ([]MatrixCell, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build matrix request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "matrix request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("matrix request: HTTP %d from %s", resp.StatusCode, c.endpoint)
	}
	cells, err := parseCells(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse matrix response")
	}
	return cells, nil
}

func buildRequest(origins, destinations []orb.Point, departure time.Time) routeMatrixRequest {
	return routeMatrixRequest{
		Origins:           asWaypoints(origins),
		Destinations:      asWaypoints(destinations),
		TravelMode:        travelModeDrive,
		RoutingPreference: routingPrefTrafficAware,
		DepartureTime:     departure.UTC().Format(time.RFC3339),
	}
}

func asWaypoints(pts []orb.Point) []routeMatrixOrigin {
	out := make([]routeMatrixOrigin, len(pts))
	for i, p := range pts {
		out[i] = routeMatrixOrigin{Waypoint: waypoint{Location: location{LatLng: latLng{
			Latitude:  p[1],
			Longitude: p[0],
		}}}}
	}
	return out
}

// parseCells reads the newline-delimited JSON response body, one cell
// per non-blank line.
func parseCells(r io.Reader) ([]MatrixCell, error) {
	cells := []MatrixCell{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var cell MatrixCell
		if err := json.Unmarshal([]byte(line), &cell); err != nil {
			return nil, errors.Wrapf(err, "bad response line %q", line)
		}
		cells = append(cells, cell)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cells, nil
}
