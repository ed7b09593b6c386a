package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mail is one outbound message
type Mail struct {
	Recipient string
	Subject   string
	Body      string
}

// Sender delivers mail. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, mail *Mail) error
}

// EmailSender sends plain-text mail through the SendGrid REST API.
// With an empty API key every Send is a no-op that reports ErrSkipped, so
// callers can record the attempt as skipped instead of failed.
type EmailSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// ErrSkipped signals that sending is disabled (no API key configured)
var ErrSkipped = fmt.Errorf("mail sending disabled")

// NewEmailSender creates an email sender
func NewEmailSender(apiKey, fromEmail, fromName string) *EmailSender {
	return &EmailSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"
const maxSendRetries = 3

// Send delivers one mail, retrying transient failures with linear backoff
func (s *EmailSender) Send(ctx context.Context, mail *Mail) error {
	if mail.Recipient == "" {
		return fmt.Errorf("invalid recipient")
	}
	if s.apiKey == "" {
		return ErrSkipped
	}

	body := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]interface{}{{"email": mail.Recipient}}},
		},
		"from":    map[string]string{"email": s.fromEmail, "name": s.fromName},
		"subject": mail.Subject,
		"content": []map[string]string{{"type": "text/plain", "value": mail.Body}},
	}
	payload, _ := json.Marshal(body)

	var lastErr error
	for attempt := 0; attempt < maxSendRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridURL, bytes.NewReader(payload))
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("sendgrid status %d", resp.StatusCode)
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}
	return lastErr
}
