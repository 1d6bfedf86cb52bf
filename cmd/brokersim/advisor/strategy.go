// Package advisor holds the demo moving-average crossover strategy shipped
// with the brokersim CLI.
package advisor

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/broker"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

const (
	fastPeriod = 9
	slowPeriod = 21
)

// Strategy goes long when the fast moving average crosses above the slow one
// and flattens on the opposite cross. One position at a time, bar driven.
type Strategy struct {
	logger *zap.Logger
	engine *broker.Engine
	symbol string
	volume fixed.Point

	closes   []fixed.Point
	lastTick common.Tick
	haveTick bool
}

func NewStrategy(logger *zap.Logger, engine *broker.Engine, symbol string, volume fixed.Point) *Strategy {
	return &Strategy{
		logger: logger,
		engine: engine,
		symbol: symbol,
		volume: volume,
	}
}

func (s *Strategy) OnTick(_ context.Context, tick common.Tick) {
	if tick.Symbol != s.symbol {
		return
	}
	s.lastTick = tick
	s.haveTick = true
}

func (s *Strategy) OnBar(_ context.Context, bar common.Bar) {
	if bar.Symbol != s.symbol || !s.haveTick {
		return
	}

	s.closes = append(s.closes, bar.Close)
	if len(s.closes) > slowPeriod {
		s.closes = s.closes[len(s.closes)-slowPeriod:]
	}
	if len(s.closes) < slowPeriod {
		return
	}

	fast := fixed.Mean(s.closes[len(s.closes)-fastPeriod:])
	slow := fixed.Mean(s.closes)

	positions := s.engine.PositionsGet(broker.Filter{Symbol: s.symbol})

	switch {
	case fast.Gt(slow) && len(positions) == 0:
		s.open()
	case fast.Lt(slow) && len(positions) > 0:
		for _, position := range positions {
			s.close(position)
		}
	}
}

func (s *Strategy) open() {
	result := s.engine.OrderSend(common.TradeRequest{
		Action:  common.ActionDeal,
		Symbol:  s.symbol,
		Type:    common.OrderTypeBuy,
		Volume:  s.volume,
		Price:   s.lastTick.Ask,
		Comment: "ma-cross",
	})
	if !result.Ok() {
		s.logger.Warn("open rejected",
			zap.String("retcode", result.Retcode.String()),
			zap.String("reason", result.Reason))
	}
}

func (s *Strategy) close(position common.Position) {
	result := s.engine.OrderSend(common.TradeRequest{
		Action:   common.ActionDeal,
		Symbol:   s.symbol,
		Position: position.Ticket,
		Type:     position.Type.Opposite(),
		Volume:   position.Volume,
		Price:    position.ClosePrice(s.lastTick),
		Comment:  "ma-cross exit",
	})
	if !result.Ok() {
		s.logger.Warn("close rejected",
			zap.Int64("ticket", int64(position.Ticket)),
			zap.String("retcode", result.Retcode.String()),
			zap.String("reason", result.Reason))
	}
}
