package vendorapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gamepin/gamepin-api/internal/pkg/metrics"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrNoStock means the vendor answered but reported it has no pins left.
	ErrNoStock = errors.New("vendor reports no stock")
	// ErrUnmappedTier means the tier has no vendor-side identifier. Checked
	// before any network call is made.
	ErrUnmappedTier = errors.New("tier has no vendor mapping")
)

// tierMap translates catalog tier ids to the vendor's own numeric identifiers.
var tierMap = map[int]int{
	1:  101, // Free Fire 110
	2:  102, // Free Fire 341
	3:  103, // Free Fire 572
	4:  104, // Free Fire 1166
	5:  105, // Free Fire 2398
	6:  201, // Blood Striker 500
	7:  202, // Blood Striker 1000
	8:  203, // Blood Striker 2180
	9:  204, // Blood Striker 5600
	10: 205, // Blood Striker 11500
}

// Config holds vendor API configuration
type Config struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
}

// Client performs on-demand pin purchases against the vendor HTTP API.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a new vendor API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		config: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// RequestPin buys exactly one pin for the given tier. Returns the pin code on
// success, ErrNoStock when the vendor is empty, or a classified network/parse
// error. No retries at this layer.
func (c *Client) RequestPin(ctx context.Context, tierID int) (string, error) {
	vendorTier, ok := tierMap[tierID]
	if !ok {
		return "", fmt.Errorf("%w: tier %d", ErrUnmappedTier, tierID)
	}
	if err := c.checkConfig(); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("usuario", c.config.User)
	q.Set("clave", c.config.Password)
	q.Set("tipo", strconv.Itoa(vendorTier))
	q.Set("numero", requestNumber())

	start := time.Now()
	body, err := c.get(ctx, q)
	if err != nil {
		metrics.RecordVendorCall("network", time.Since(start))
		return "", err
	}

	code, err := ParsePinResponse(body)
	if err != nil {
		if errors.Is(err, ErrNoStock) {
			metrics.RecordVendorCall("no_stock", time.Since(start))
			log.Warn().Int("tier_id", tierID).Msg("Vendor out of stock")
		} else {
			metrics.RecordVendorCall("parse", time.Since(start))
			log.Error().Err(err).Int("tier_id", tierID).Msg("Unparseable vendor response")
		}
		return "", err
	}

	metrics.RecordVendorCall("ok", time.Since(start))
	return code, nil
}

// TestConnection fires a harmless probe request so operators can tell whether
// the vendor endpoint is reachable with the configured credentials. Not used
// on the allocation path.
func (c *Client) TestConnection(ctx context.Context) (bool, string) {
	if err := c.checkConfig(); err != nil {
		return false, err.Error()
	}

	q := url.Values{}
	q.Set("usuario", c.config.User)
	q.Set("clave", c.config.Password)
	q.Set("tipo", "0")
	q.Set("numero", "0")

	body, err := c.get(ctx, q)
	if err != nil {
		return false, fmt.Sprintf("vendor unreachable: %v", err)
	}

	return true, fmt.Sprintf("vendor reachable, %d byte response", len(body))
}

func (c *Client) checkConfig() error {
	if c == nil || c.http == nil {
		return fmt.Errorf("vendor client is not initialized")
	}
	if strings.TrimSpace(c.config.BaseURL) == "" {
		return fmt.Errorf("vendor config error: base_url is empty")
	}
	if strings.TrimSpace(c.config.User) == "" {
		return fmt.Errorf("vendor config error: user is empty")
	}
	return nil
}

func (c *Client) get(ctx context.Context, q url.Values) (string, error) {
	base := strings.TrimRight(c.config.BaseURL, "/")
	reqURL := base + "/api/recarga?" + q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("vendor request error: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("vendor response read error: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("vendor http error: status=%d", resp.StatusCode)
	}

	return string(body), nil
}

// requestNumber generates the per-call "numero" parameter the vendor protocol
// requires for every purchase.
func requestNumber() string {
	return strconv.Itoa(10000000 + rand.Intn(90000000))
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("vendor request timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("vendor network error: %w", err)
	}
	return fmt.Errorf("vendor request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	return false
}
