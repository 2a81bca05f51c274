package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"allocation-backend/internal/metrics"
	"allocation-backend/internal/resolver"
)

// OffChainAllocationClient queries the external allocation API for a
// confirmation record. The API is advisory: any failure here degrades the
// result but must never abort a resolution, so FetchConfirmed reports
// failures as a captured description instead of an error return.
type OffChainAllocationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOffChainAllocationClient creates a new off-chain allocation client
func NewOffChainAllocationClient(baseURL string, timeout time.Duration) *OffChainAllocationClient {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &OffChainAllocationClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchConfirmed fetches the confirmed off-chain allocation for an entity.
// Returns (nil, "") when the API reports no allocation, and (nil, reason)
// on any transport, status or decode failure.
func (c *OffChainAllocationClient) FetchConfirmed(ctx context.Context, entityID resolver.EntityID) (*resolver.OffChainAllocation, string) {
	reqURL := fmt.Sprintf("%s/allocation?entityId=%s", c.baseURL, url.QueryEscape(entityID.Hex()))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, c.failure("failed to create request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.failure("off-chain API unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.failure("failed to read off-chain response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure("off-chain API error (status %d): %s", resp.StatusCode, string(body))
	}

	var allocation resolver.OffChainAllocation
	if err := json.Unmarshal(body, &allocation); err != nil {
		return nil, c.failure("malformed off-chain response: %v", err)
	}

	if !allocation.HasPositiveAllocation() {
		// Valid response with no allocation recorded
		return nil, ""
	}

	return &allocation, ""
}

func (c *OffChainAllocationClient) failure(format string, args ...interface{}) string {
	reason := fmt.Sprintf(format, args...)
	metrics.OffChainFetchFailures.Inc()
	logrus.WithField("reason", reason).Warn("off-chain allocation fetch failed")
	return reason
}
