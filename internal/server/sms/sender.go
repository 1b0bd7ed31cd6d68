// Package sms delivers one-time login codes to phone numbers
// through an HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers a short text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone string, text string) error
}

// GatewaySender posts messages to a JSON SMS gateway endpoint.
type GatewaySender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewGatewaySender(endpoint, apiKey string) *GatewaySender {
	return &GatewaySender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *GatewaySender) Send(ctx context.Context, phone string, text string) error {
	body, err := json.Marshal(map[string]string{
		"to":   phone,
		"text": text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NoopSender discards messages. Used when no gateway is configured,
// together with returning the code in the response for development.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, phone string, text string) error {
	return nil
}
