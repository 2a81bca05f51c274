package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"allocation-backend/internal/config"
	"allocation-backend/internal/resolver"
)

// Publisher pushes a compact record of each completed resolution onto NATS
// for downstream dashboards. Entirely optional and best-effort: a nil
// Publisher is valid and publishing never affects the response.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// ResolutionEvent the published payload
type ResolutionEvent struct {
	Identity  string  `json:"identity"`
	EntityID  string  `json:"entity_id"`
	Found     bool    `json:"found"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

// NewPublisher connects to NATS when configured. Returns nil (no error)
// when nats.url is empty, matching the rest of the optional wiring.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if cfg.URL == "" {
		logrus.Info("NATS not configured, skipping resolution event publisher")
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	logrus.WithField("url", cfg.URL).Info("✅ NATS resolution event publisher connected")
	return &Publisher{
		conn:    conn,
		subject: cfg.Subject,
	}, nil
}

// PublishResolution publishes one completed resolution. Safe on a nil
// receiver; failures are logged and dropped.
func (p *Publisher) PublishResolution(identity string, result *resolver.ResolvedAllocation) {
	if p == nil || result == nil {
		return
	}

	event := ResolutionEvent{
		Identity:  identity,
		EntityID:  result.EntityID,
		Found:     result.Found,
		Amount:    result.Amount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Warn("failed to marshal resolution event")
		return
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		logrus.WithError(err).Warn("failed to publish resolution event")
	}
}

// Close drains the connection
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
