// Package live provides the pass-through quote source used when the engine
// runs against a real feed instead of a replay. The websocket read loop runs
// on its own goroutine; the engine only ever sees the TickSource interface.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// quoteMessage is the wire format of one quote update.
type quoteMessage struct {
	Symbol string  `json:"symbol"`
	Bid    string  `json:"bid"`
	Ask    string  `json:"ask"`
	Last   string  `json:"last,omitempty"`
	Volume float64 `json:"volume,omitempty"`
	TimeMs int64   `json:"time_ms"`
}

type Client struct {
	log *zap.Logger
	url string

	conn   *websocket.Conn
	stopCh chan struct{}

	reconnectMin time.Duration
	reconnectMax time.Duration

	mu     sync.RWMutex
	quotes map[string]common.Tick
}

func NewClient(log *zap.Logger, url string) *Client {
	return &Client{
		log:          log,
		url:          url,
		stopCh:       make(chan struct{}),
		reconnectMin: time.Second,
		reconnectMax: 30 * time.Second,
		quotes:       make(map[string]common.Tick),
	}
}

// Connect dials the feed, subscribes to the symbols and starts the read
// loop.
func (c *Client) Connect(ctx context.Context, symbols []string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.conn.SetReadLimit(2 << 20)

	if err := c.conn.WriteJSON(map[string]any{"op": "subscribe", "symbols": symbols}); err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	c.log.Info("live feed connected", zap.String("url", c.url), zap.Strings("symbols", symbols))

	go c.readLoop()
	return nil
}

func (c *Client) Close() {
	close(c.stopCh)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// GetTick returns the latest received quote for the symbol.
func (c *Client) GetTick(symbol string) (common.Tick, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tick, ok := c.quotes[symbol]
	if !ok {
		return common.Tick{}, fmt.Errorf("no quote for %s", symbol)
	}
	return tick, nil
}

// Advance always reports true: a live feed has no natural end.
func (c *Client) Advance() bool {
	select {
	case <-c.stopCh:
		return false
	default:
		return true
	}
}

func (c *Client) readLoop() {
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Warn("read failed", zap.Error(err))
			if !c.reconnect() {
				return
			}
			continue
		}

		var msg quoteMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("malformed quote message", zap.Error(err))
			continue
		}
		if msg.Symbol == "" {
			continue
		}

		tick, err := msg.toTick()
		if err != nil {
			c.log.Warn("invalid quote", zap.String("symbol", msg.Symbol), zap.Error(err))
			continue
		}

		c.mu.Lock()
		c.quotes[msg.Symbol] = tick
		c.mu.Unlock()
	}
}

func (m quoteMessage) toTick() (common.Tick, error) {
	bid, err := fixed.FromString(m.Bid)
	if err != nil {
		return common.Tick{}, fmt.Errorf("bid: %w", err)
	}
	ask, err := fixed.FromString(m.Ask)
	if err != nil {
		return common.Tick{}, fmt.Errorf("ask: %w", err)
	}
	last := bid
	if m.Last != "" {
		if last, err = fixed.FromString(m.Last); err != nil {
			return common.Tick{}, fmt.Errorf("last: %w", err)
		}
	}
	return common.Tick{
		Symbol:    m.Symbol,
		Bid:       bid,
		Ask:       ask,
		Last:      last,
		Volume:    fixed.FromFloat64(m.Volume),
		TimeStamp: time.UnixMilli(m.TimeMs),
	}, nil
}

func (c *Client) reconnect() bool {
	backoff := c.reconnectMin

	for {
		select {
		case <-c.stopCh:
			return false
		default:
		}

		time.Sleep(backoff)

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err == nil {
			c.conn = conn
			c.conn.SetReadLimit(2 << 20)
			c.log.Info("live feed reconnected", zap.String("url", c.url))
			return true
		}

		c.log.Warn("reconnect failed", zap.Error(err))
		backoff *= 2
		if backoff > c.reconnectMax {
			backoff = c.reconnectMax
		}
	}
}
