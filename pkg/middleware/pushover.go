package middleware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
)

const pushoverEndpoint = "https://api.pushover.net/1/messages.json"

// Pushover sends a phone notification each time a position closes. Meant for
// live runs, not backtests.
type Pushover struct {
	user     string
	token    string
	device   string
	endpoint string
}

type PushoverOption func(*Pushover)

// PushoverWithEndpoint overrides the API endpoint.
func PushoverWithEndpoint(url string) PushoverOption {
	return func(p *Pushover) {
		p.endpoint = url
	}
}

func NewPushover(user, token, device string, opts ...PushoverOption) *Pushover {
	p := &Pushover{
		user:     user,
		token:    token,
		device:   device,
		endpoint: pushoverEndpoint,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pushover) WithPositionClosed(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		go func() {
			msg := fmt.Sprintf("ticket = %d\nsymbol = %s\npnl = %s",
				position.Ticket, position.Symbol, position.Profit.Rescale(2).String())
			if err := p.send(ctx, "Position Closed", msg); err != nil {
				slog.Error("pushover notification failed", "error", err)
			}
		}()
		handler(ctx, position)
	}
}

func (p *Pushover) send(ctx context.Context, title, message string) error {
	data := url.Values{}
	data.Set("token", p.token)
	data.Set("user", p.user)
	data.Set("device", p.device)
	data.Set("title", title)
	data.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("pushover post failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pushover error: %s", body)
	}
	return nil
}
