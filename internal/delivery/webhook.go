package delivery

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// signatureHeader carries the hex HMAC-SHA256 of the callback body when a
// shared secret is configured.
const signatureHeader = "X-Signature"

// callbackTimeout bounds a webhook POST end to end.
const callbackTimeout = 10 * time.Second

// CallbackPayload is the JSON body POSTed to a caller's webhook on job
// completion or failure.
type CallbackPayload struct {
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Notifier delivers terminal-state callbacks. Delivery is advisory: any
// failure is logged and swallowed, never escalated to the job.
type Notifier struct {
	client *http.Client
	secret string
	log    zerolog.Logger
}

// NewNotifier creates a Notifier. secret may be empty to disable signing.
func NewNotifier(secret string, log zerolog.Logger) *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: callbackTimeout},
		secret: secret,
		log:    log,
	}
}

// Notify POSTs the payload to url. The signature, when enabled, is computed
// over the exact serialized body bytes.
func (n *Notifier) Notify(ctx context.Context, url string, payload CallbackPayload) {
	if url == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.log.Warn().Err(err).Str("job_id", payload.JobID).Msg("callback payload marshal failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.log.Warn().Err(err).Str("job_id", payload.JobID).Msg("callback request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set(signatureHeader, Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("job_id", payload.JobID).Str("url", url).
			Msg("callback delivery failed")
		return
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.log.Warn().Int("status", resp.StatusCode).Str("job_id", payload.JobID).Str("url", url).
			Msg("callback rejected by receiver")
		return
	}
	n.log.Info().Str("job_id", payload.JobID).Str("url", url).Msg("callback delivered")
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
