// Package push sends mobile push notifications through an FCM-style
// HTTP gateway. Delivery is best effort: a failed push never fails
// the request that triggered it.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/carblock/internal/logging"
)

// Message is a single push notification addressed by device token.
// MessageID makes delivery idempotent at the gateway: notification
// creation is at-least-once, so a retried dispatch reuses the same id.
type Message struct {
	MessageID string            `json:"message_id,omitempty"`
	Token     string            `json:"token"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
}

// Notifier delivers push messages to devices.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// GatewayNotifier posts messages to an HTTP push gateway.
type GatewayNotifier struct {
	endpoint  string
	serverKey string
	client    *http.Client
	logger    logging.Logger
}

func NewGatewayNotifier(endpoint, serverKey string, logger logging.Logger) *GatewayNotifier {
	return &GatewayNotifier{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

// Notify sends the message and logs failures instead of returning them.
func (n *GatewayNotifier) Notify(ctx context.Context, msg Message) {
	if msg.Token == "" {
		return
	}
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if err := n.send(ctx, msg); err != nil {
		n.logger.Error(ctx, "push delivery failed", "error", err)
	}
}

func (n *GatewayNotifier) send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+n.serverKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier discards messages. Used when no gateway is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, msg Message) {}
