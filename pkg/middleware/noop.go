package middleware

import (
	"context"

	"github.com/quantlab-fx/brokersim/pkg/common"
)

//goland:noinspection ALL
var (
	NoopTickHdl     = func(context.Context, common.Tick) {}
	NoopBarHdl      = func(context.Context, common.Bar) {}
	NoopSnapshotHdl = func(context.Context, common.Snapshot) {}
	NoopPositionHdl = func(context.Context, common.Position) {}
	NoopOrderHdl    = func(context.Context, common.Order) {}
	NoopRejectHdl   = func(context.Context, common.TradeResult) {}
	NoopDealHdl     = func(context.Context, common.Deal) {}
)
