// Package notify publishes build completion events to NATS so other services
// (deployers, cache purgers) can react to a fresh site.
package notify

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
	"github.com/fluxpress/theme-classic/internal/site"
)

// Publisher is the subset of *nats.Conn the observer needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// BuildCompletedMessage is the JSON body published for every finished build.
type BuildCompletedMessage struct {
	BuildID     string         `json:"build_id"`
	Outcome     string         `json:"outcome"`
	Timestamp   time.Time      `json:"timestamp"`
	DurationMS  int64          `json:"duration_ms"`
	Posts       int            `json:"posts"`
	Pages       map[string]int `json:"pages"`
	TotalPages  int            `json:"total_pages"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
}

// NATSPublisher is a site.BuildObserver publishing build_completed messages.
// Publish failures are logged; they never affect the build.
type NATSPublisher struct {
	pub     Publisher
	conn    *nats.Conn
	subject string
}

var _ site.BuildObserver = (*NATSPublisher)(nil)

// NewPublisher wraps an existing publisher.
func NewPublisher(pub Publisher, subject string) *NATSPublisher {
	if subject == "" {
		subject = config.DefaultNotifySubject
	}
	return &NATSPublisher{pub: pub, subject: subject}
}

// Connect dials cfg.NATSURL. It returns nil, nil when no URL is configured.
func Connect(cfg config.NotifyConfig) (*NATSPublisher, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("fluxpress"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", cfg.NATSURL).
			Build()
	}
	p := NewPublisher(conn, cfg.Subject)
	p.conn = conn
	slog.Info("NATS build notifications enabled", logfields.URL(cfg.NATSURL), logfields.Topic(p.subject))
	return p, nil
}

// Subject returns the subject messages are published on.
func (p *NATSPublisher) Subject() string { return p.subject }

func (p *NATSPublisher) OnBuildStart(string)                                                     {}
func (p *NATSPublisher) OnStageStart(string, site.StageName)                                     {}
func (p *NATSPublisher) OnStageComplete(string, site.StageName, time.Duration, site.StageResult) {}

func (p *NATSPublisher) OnBuildComplete(report *site.BuildReport) {
	if err := p.Publish(report); err != nil {
		slog.Warn("Failed to publish build notification", logfields.BuildID(report.ID), logfields.Error(err))
	}
}

// Publish sends the message for report.
func (p *NATSPublisher) Publish(report *site.BuildReport) error {
	msg := NewBuildCompletedMessage(report)
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.NotifyError("failed to marshal build notification").WithCause(err).Build()
	}
	if err := p.pub.Publish(p.subject, data); err != nil {
		return errors.NotifyError("failed to publish build notification").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	slog.Debug("Published build notification", logfields.BuildID(report.ID), logfields.Topic(p.subject))
	return nil
}

// NewBuildCompletedMessage builds the message body for report.
func NewBuildCompletedMessage(report *site.BuildReport) BuildCompletedMessage {
	msg := BuildCompletedMessage{
		BuildID:     report.ID,
		Outcome:     string(report.Outcome),
		Timestamp:   report.End,
		DurationMS:  report.Duration().Milliseconds(),
		Posts:       report.Posts,
		Pages:       report.Pages,
		TotalPages:  report.TotalPages(),
		Fingerprint: report.Fingerprint,
	}
	for _, err := range report.Errors {
		msg.Errors = append(msg.Errors, err.Error())
	}
	return msg
}

// Close drains the connection opened by Connect.
func (p *NATSPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
