package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"allocation-backend/internal/metrics"
	"allocation-backend/internal/resolver"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by the CORS layer; the socket itself carries
		// no credentials and is read-only.
		return true
	},
}

// wsFrame one message to the client: progress frames during the
// resolution, then a single result or error frame.
type wsFrame struct {
	Type   string                       `json:"type"` // "progress" | "result" | "error"
	Stage  string                       `json:"stage,omitempty"`
	Result *resolver.ResolvedAllocation `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
}

// wsRequest the single message the client sends after connecting
type wsRequest struct {
	Identity string `json:"identity"`
}

// ResolveAllocationWSHandler streams resolution progress over a WebSocket.
// Event scans can run for minutes; this lets the frontend render per-chunk
// progress instead of a spinner.
// GET /api/allocation/resolve/ws
func (h *ResolveHandler) ResolveAllocationWSHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.WSConnectionsActive.Inc()
	defer metrics.WSConnectionsActive.Dec()

	var req wsRequest
	if err := conn.ReadJSON(&req); err != nil || req.Identity == "" {
		conn.WriteJSON(wsFrame{Type: "error", Error: "expected {\"identity\": ...}"})
		return
	}

	log := logrus.WithField("identity", req.Identity)
	log.Info("🌐 WebSocket resolution started")

	sink := resolver.ProgressFunc(func(stage string) {
		// Write failures only mean the client went away; the engine
		// keeps running and the final write below reports the real error.
		if err := conn.WriteJSON(wsFrame{Type: "progress", Stage: stage}); err != nil {
			log.WithError(err).Debug("progress write failed")
		}
	})

	result, err := h.engine.Resolve(c.Request.Context(), req.Identity, sink)
	if err != nil {
		conn.WriteJSON(wsFrame{Type: "error", Error: err.Error()})
		return
	}

	h.publisher.PublishResolution(req.Identity, result)
	conn.WriteJSON(wsFrame{Type: "result", Result: result})
}
