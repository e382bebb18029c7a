package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spreadpools/pickem-backend/internal/platform/logging"
	"github.com/spreadpools/pickem-backend/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

// Event is one announcement delivered to the pool's webhook: a chat
// integration or a mail gateway, whatever the deployment points at.
type Event struct {
	Kind    string         `json:"kind"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
	SentAt  time.Time      `json:"sent_at"`
}

const (
	KindPasswordReset = "password_reset"
	KindGameGraded    = "game_graded"
)

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookNotifier posts events to a single configured URL. With no URL it
// becomes a no-op, so callers never branch on whether notifications are on.
type WebhookNotifier struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookNotifier(cfg WebhookConfig, logger *logging.Logger) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookNotifier{
		client:         &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

func (n *WebhookNotifier) Publish(ctx context.Context, event Event) error {
	if !n.Enabled() {
		return nil
	}
	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "webhook circuit breaker rejected event", "state", n.breaker.State(), "kind", event.Kind)
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}

	if event.SentAt.IsZero() {
		event.SentAt = time.Now().UTC()
	}
	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal webhook event")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.kind", event.Kind),
			attribute.String("webhook.request_body", truncateForLog(string(body), 4096)),
		)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	req.SetBody(body)

	if err := n.client.DoTimeout(req, resp, n.timeout); err != nil {
		callErr := fmt.Errorf("%w: post webhook event kind=%s: %v", errWebhookTransient, event.Kind, err)
		n.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		raw := truncateForLog(string(resp.Body()), 1024)
		callErr := fmt.Errorf("post webhook event kind=%s status=%d body=%s", event.Kind, status, raw)
		if isRetryableStatus(status) {
			callErr = fmt.Errorf("%w: %v", errWebhookTransient, callErr)
		}
		n.recordCircuitResult(callErr)
		return callErr
	}

	n.logger.InfoContext(ctx, "webhook event published", "kind", event.Kind, "subject", event.Subject)
	n.recordCircuitResult(nil)
	return nil
}

func (n *WebhookNotifier) recordCircuitResult(err error) {
	if !n.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errWebhookTransient) {
		n.breaker.RecordFailure()
		return
	}
	n.breaker.RecordSuccess()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status/100 == 5
}

func truncateForLog(value string, limit int) string {
	if len(value) <= limit {
		return value
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(value[:limit])
	_, _ = buf.WriteString("...")
	return buf.String()
}
