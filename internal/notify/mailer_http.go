package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ndoors/internal/platform/config"
	"ndoors/pkg/platform/circuit"
)

// HTTPMailer delivers email through a Resend-shaped JSON API: one POST per
// message, bearer-key auth, Reply-To support. A circuit breaker sheds sends
// while the provider is down so dispatcher goroutines fail fast instead of
// piling up on a dead endpoint.
type HTTPMailer struct {
	cfg     config.MailConfig
	client  *http.Client
	breaker *circuit.Breaker

	mu        sync.Mutex
	lastProbe time.Time
}

// NewHTTPMailer constructs a mailer against the configured email API.
func NewHTTPMailer(cfg config.MailConfig) *HTTPMailer {
	return &HTTPMailer{
		cfg:     cfg,
		client:  &http.Client{},
		breaker: circuit.New("email-api"),
	}
}

type outboundEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

func (m *HTTPMailer) SendReferentInvite(ctx context.Context, p ReferentInvite) error {
	return m.send(ctx, outboundEmail{
		From:    m.cfg.From,
		To:      []string{p.ReferentEmail},
		Subject: fmt.Sprintf("%s has listed you as a reference", p.ApplicantName),
		HTML:    inviteHTML(p),
	})
}

func (m *HTTPMailer) SendRecruiterNotification(ctx context.Context, p RecruiterNotification) error {
	return m.send(ctx, outboundEmail{
		From:    m.cfg.From,
		To:      []string{p.RecruiterEmail},
		Subject: fmt.Sprintf("%s confirmed as reference for %s", p.ReferentName, p.ApplicantName),
		HTML:    recruiterNotificationHTML(p),
	})
}

func (m *HTTPMailer) SendReferenceQuestions(ctx context.Context, p ReferenceQuestions) error {
	return m.send(ctx, outboundEmail{
		From:    m.cfg.From,
		To:      []string{p.ReferentEmail},
		Subject: fmt.Sprintf("Reference questions for %s", p.ApplicantName),
		HTML:    questionsHTML(p),
		ReplyTo: p.RecruiterEmail,
	})
}

// ErrMailUnavailable is returned without hitting the wire while the
// breaker is open.
var ErrMailUnavailable = errors.New("email API unavailable")

const probeInterval = 30 * time.Second

func (m *HTTPMailer) send(ctx context.Context, email outboundEmail) error {
	if m.breaker.IsOpen() && !m.allowProbe() {
		return ErrMailUnavailable
	}

	if err := m.doSend(ctx, email); err != nil {
		if _, change := m.breaker.RecordFailure(); change.Opened {
			// The trip counts as the most recent probe.
			m.mu.Lock()
			m.lastProbe = time.Now()
			m.mu.Unlock()
		}
		return err
	}
	m.breaker.RecordSuccess()
	return nil
}

// allowProbe admits one request per interval while the circuit is open,
// giving the breaker real outcomes to close on.
func (m *HTTPMailer) allowProbe() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Since(m.lastProbe) < probeInterval {
		return false
	}
	m.lastProbe = time.Now()
	return true
}

func (m *HTTPMailer) doSend(ctx context.Context, email outboundEmail) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email API returned %s", resp.Status)
	}
	return nil
}
