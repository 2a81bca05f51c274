package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RelayHandler forwards browser requests to the cross-origin off-chain
// allocation API. Byte-transparent: upstream status and body pass through
// unchanged; only the permissive CORS header is added.
type RelayHandler struct {
	upstreamBaseURL string
	httpClient      *http.Client
}

// NewRelayHandler creates a relay for the given upstream base URL
func NewRelayHandler(upstreamBaseURL string, timeout time.Duration) *RelayHandler {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RelayHandler{
		upstreamBaseURL: upstreamBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RelayAllocationHandler relays one allocation lookup
// GET /relay/allocation?entityId=<id>
func (h *RelayHandler) RelayAllocationHandler(c *gin.Context) {
	entityID := c.Query("entityId")
	if entityID == "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing entityId parameter"})
		return
	}

	upstreamURL := fmt.Sprintf("%s/allocation?entityId=%s", h.upstreamBaseURL, url.QueryEscape(entityID))

	req, err := http.NewRequestWithContext(c.Request.Context(), "GET", upstreamURL, nil)
	if err != nil {
		c.Header("Access-Control-Allow-Origin", "*")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build upstream request", "details": err.Error()})
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("relay upstream transport failure")
		c.Header("Access-Control-Allow-Origin", "*")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upstream request failed", "details": err.Error()})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Header("Access-Control-Allow-Origin", "*")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upstream response", "details": err.Error()})
		return
	}

	c.Header("Access-Control-Allow-Origin", "*")
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, body)
}
