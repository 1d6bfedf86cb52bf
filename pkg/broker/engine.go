package broker

import (
	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// TickSource supplies the current quote for a symbol. In replay mode Advance
// moves the stream forward one step and reports false when exhausted; a live
// implementation always returns true.
type TickSource interface {
	GetTick(symbol string) (common.Tick, error)
	Advance() bool
}

// SymbolSource resolves static instrument parameters.
type SymbolSource interface {
	GetSymbol(symbol string) (common.SymbolSpec, error)
}

// Engine owns the order, position and deal containers and applies every state
// transition through OrderSend. It is single-writer: one goroutine drives the
// replay loop, the monitor and the strategy callbacks, so no locking is done
// here.
type Engine struct {
	log     *zap.Logger
	ticks   TickSource
	symbols SymbolSource
	seq     ticketSequence

	account       common.Account
	positions     []common.Position
	orders        []common.Order
	historyOrders []common.Order
	deals         []common.Deal

	commissionHandler CommissionHandler
	swapHandler       SwapHandler
	journal           DealJournal
	router            *bus.Router
}

func NewEngine(log *zap.Logger, ticks TickSource, symbols SymbolSource, account common.Account, opts ...Option) *Engine {
	e := &Engine{
		log:     log,
		ticks:   ticks,
		symbols: symbols,
		account: account,
		commissionHandler: func(common.SymbolSpec, fixed.Point, fixed.Point) fixed.Point {
			return fixed.Zero
		},
		swapHandler: func(common.SymbolSpec, common.Position) fixed.Point {
			return fixed.Zero
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.account.Refresh(fixed.Zero, fixed.Zero)
	return e
}

// Account returns a copy of the current account state.
func (e *Engine) Account() common.Account {
	return e.account
}

// OrderSend is the single entry point for every trade transition, used both
// by strategy code and by the monitor's synthetic fills.
func (e *Engine) OrderSend(req common.TradeRequest) common.TradeResult {
	switch req.Action {
	case common.ActionDeal:
		if req.Position != 0 {
			return e.closePosition(req)
		}
		return e.openPosition(req)
	case common.ActionPending:
		return e.placePending(req)
	case common.ActionSLTP:
		return e.modifyPositionStops(req)
	case common.ActionModify:
		return e.modifyOrder(req)
	case common.ActionRemove:
		return e.removeOrder(req)
	}
	return e.rejected(common.Reject(common.RetcodeInvalid, "unsupported action"), req)
}

func (e *Engine) openPosition(req common.TradeRequest) common.TradeResult {
	if !req.Type.IsMarket() {
		return e.rejected(common.Reject(common.RetcodeInvalid, "open requires a market order type"), req)
	}

	spec, tick, rej := e.marketData(req.Symbol)
	if rej != nil {
		return e.rejected(rej.result(), req)
	}

	e.refreshAggregates()

	for _, rej := range []*rejection{
		validStopLoss(spec, req.Type, req.Price, req.StopLoss),
		validTakeProfit(spec, req.Type, req.Price, req.TakeProfit),
		validLotSize(spec, req.Volume),
		symbolVolumeReached(e.symbolVolume(req.Symbol), spec.VolumeLimit),
	} {
		if rej != nil {
			return e.rejected(rej.result(), req)
		}
	}

	margin, err := OrderMargin(spec, e.account.Leverage, req.Volume, req.Price)
	if err != nil {
		e.log.Error("margin calculation failed", zap.Error(err))
		return e.rejected(common.Reject(common.RetcodeInvalid, err.Error()), req)
	}
	if rej := enoughMoney(margin, e.account.MarginFree); rej != nil {
		return e.rejected(rej.result(), req)
	}

	now := tick.TimeStamp
	position := common.Position{
		Ticket:     e.seq.next(now),
		Symbol:     req.Symbol,
		Type:       positionTypeOf(req.Type),
		Volume:     req.Volume,
		PriceOpen:  req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Margin:     margin,
		Magic:      req.Magic,
		Comment:    req.Comment,
		TimeOpen:   now,
	}
	e.positions = append(e.positions, position)

	order := common.Order{
		Ticket:     e.seq.next(now),
		Symbol:     req.Symbol,
		Type:       req.Type,
		State:      common.OrderStateFilled,
		Volume:     req.Volume,
		PriceOpen:  req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Magic:      req.Magic,
		Comment:    req.Comment,
		TimeSetup:  now,
		TimeDone:   now,
	}
	e.historyOrders = append(e.historyOrders, order)

	deal := common.Deal{
		Ticket:     e.seq.next(now),
		Order:      order.Ticket,
		Position:   position.Ticket,
		Symbol:     req.Symbol,
		Type:       req.Type,
		Entry:      common.DealEntryIn,
		Reason:     inferReason(spec, req.Price, req.StopLoss, req.TakeProfit),
		Volume:     req.Volume,
		Price:      req.Price,
		Commission: e.commissionHandler(spec, req.Volume, req.Price),
		Magic:      req.Magic,
		Comment:    req.Comment,
		Time:       now,
	}
	e.appendDeal(deal)

	e.refreshAggregates()
	e.post(bus.PositionOpenedEvent, position)

	e.log.Debug("position opened",
		zap.Int64("position", position.Ticket),
		zap.String("symbol", position.Symbol),
		zap.Stringer("type", position.Type),
		zap.Stringer("volume", position.Volume),
		zap.Stringer("price", position.PriceOpen))

	return common.TradeResult{
		Retcode:  common.RetcodeDone,
		Deal:     deal.Ticket,
		Order:    order.Ticket,
		Position: position.Ticket,
		Volume:   req.Volume,
		Price:    req.Price,
	}
}

func (e *Engine) closePosition(req common.TradeRequest) common.TradeResult {
	idx := e.positionIndex(req.Position)
	if idx < 0 {
		return e.rejected(common.Reject(common.RetcodeInvalid, "position not found"), req)
	}
	position := e.positions[idx]

	spec, tick, rej := e.marketData(position.Symbol)
	if rej != nil {
		return e.rejected(rej.result(), req)
	}

	if req.Type != position.Type.Opposite() {
		return e.rejected(common.Reject(common.RetcodeInvalid, "close requires the opposite order type"), req)
	}
	if !req.Volume.Eq(position.Volume) {
		return e.rejected(common.Reject(common.RetcodeInvalid, "partial close not supported"), req)
	}
	if rej := validEntryPrice(spec, req.Type, req.Price, tick); rej != nil {
		return e.rejected(rej.result(), req)
	}

	profit, err := OrderProfit(spec, position.Type.OrderType(), position.Volume, position.PriceOpen, req.Price)
	if err != nil {
		e.log.Error("profit calculation failed", zap.Error(err))
		return e.rejected(common.Reject(common.RetcodeInvalid, err.Error()), req)
	}

	e.positions = append(e.positions[:idx], e.positions[idx+1:]...)

	now := tick.TimeStamp
	order := common.Order{
		Ticket:    e.seq.next(now),
		Symbol:    position.Symbol,
		Type:      req.Type,
		State:     common.OrderStateFilled,
		Volume:    position.Volume,
		PriceOpen: req.Price,
		Magic:     req.Magic,
		Comment:   req.Comment,
		TimeSetup: now,
		TimeDone:  now,
	}
	e.historyOrders = append(e.historyOrders, order)

	deal := common.Deal{
		Ticket:     e.seq.next(now),
		Order:      order.Ticket,
		Position:   position.Ticket,
		Symbol:     position.Symbol,
		Type:       req.Type,
		Entry:      common.DealEntryOut,
		Reason:     inferReason(spec, req.Price, position.StopLoss, position.TakeProfit),
		Volume:     position.Volume,
		Price:      req.Price,
		Commission: e.commissionHandler(spec, position.Volume, req.Price),
		Swap:       e.swapHandler(spec, position),
		Profit:     profit,
		Magic:      req.Magic,
		Comment:    req.Comment,
		Time:       now,
	}
	e.appendDeal(deal)

	e.refreshAggregates()
	e.post(bus.PositionClosedEvent, position)

	e.log.Debug("position closed",
		zap.Int64("position", position.Ticket),
		zap.String("symbol", position.Symbol),
		zap.Stringer("reason", deal.Reason),
		zap.Stringer("price", req.Price),
		zap.Stringer("profit", profit))

	return common.TradeResult{
		Retcode:  common.RetcodeDone,
		Deal:     deal.Ticket,
		Order:    order.Ticket,
		Position: position.Ticket,
		Volume:   position.Volume,
		Price:    req.Price,
	}
}

func (e *Engine) placePending(req common.TradeRequest) common.TradeResult {
	if !req.Type.IsPending() {
		return e.rejected(common.Reject(common.RetcodeInvalid, "pending requires a pending order type"), req)
	}

	spec, tick, rej := e.marketData(req.Symbol)
	if rej != nil {
		return e.rejected(rej.result(), req)
	}

	for _, rej := range []*rejection{
		maxOrdersReached(len(e.orders), e.account.LimitOrders),
		validStopLoss(spec, req.Type, req.Price, req.StopLoss),
		validTakeProfit(spec, req.Type, req.Price, req.TakeProfit),
		validLotSize(spec, req.Volume),
		symbolVolumeReached(e.symbolVolume(req.Symbol), spec.VolumeLimit),
	} {
		if rej != nil {
			return e.rejected(rej.result(), req)
		}
	}

	now := tick.TimeStamp
	order := common.Order{
		Ticket:         e.seq.next(now),
		Symbol:         req.Symbol,
		Type:           req.Type,
		State:          common.OrderStatePlaced,
		Volume:         req.Volume,
		PriceOpen:      req.Price,
		PriceStopLimit: req.PriceStopLimit,
		StopLoss:       req.StopLoss,
		TakeProfit:     req.TakeProfit,
		Magic:          req.Magic,
		Comment:        req.Comment,
		TimeSetup:      now,
		Expiration:     req.Expiration,
	}
	e.orders = append(e.orders, order)
	e.post(bus.OrderPlacedEvent, order)

	e.log.Debug("pending order placed",
		zap.Int64("order", order.Ticket),
		zap.String("symbol", order.Symbol),
		zap.Stringer("type", order.Type),
		zap.Stringer("price", order.PriceOpen))

	return common.TradeResult{
		Retcode: common.RetcodeDone,
		Order:   order.Ticket,
		Volume:  req.Volume,
		Price:   req.Price,
	}
}

func (e *Engine) modifyPositionStops(req common.TradeRequest) common.TradeResult {
	idx := e.positionIndex(req.Position)
	if idx < 0 {
		return e.rejected(common.Reject(common.RetcodeInvalid, "position not found"), req)
	}
	position := &e.positions[idx]

	spec, tick, rej := e.marketData(position.Symbol)
	if rej != nil {
		return e.rejected(rej.result(), req)
	}

	market := position.ClosePrice(tick)
	orderType := position.Type.OrderType()
	for _, rej := range []*rejection{
		validStopLoss(spec, orderType, position.PriceOpen, req.StopLoss),
		validTakeProfit(spec, orderType, position.PriceOpen, req.TakeProfit),
		validFreezeLevel(spec, market, req.StopLoss, "sl"),
		validFreezeLevel(spec, market, req.TakeProfit, "tp"),
	} {
		if rej != nil {
			return e.rejected(rej.result(), req)
		}
	}

	position.StopLoss = req.StopLoss
	position.TakeProfit = req.TakeProfit
	e.post(bus.PositionUpdatedEvent, *position)

	return common.TradeResult{Retcode: common.RetcodeDone, Position: position.Ticket}
}

func (e *Engine) modifyOrder(req common.TradeRequest) common.TradeResult {
	idx := e.orderIndex(req.Order)
	if idx < 0 {
		return e.rejected(common.Reject(common.RetcodeInvalid, "order not found"), req)
	}
	order := &e.orders[idx]

	spec, tick, rej := e.marketData(order.Symbol)
	if rej != nil {
		return e.rejected(rej.result(), req)
	}

	market := tick.Ask
	if order.Type.IsSell() {
		market = tick.Bid
	}
	for _, rej := range []*rejection{
		validStopLoss(spec, order.Type, req.Price, req.StopLoss),
		validTakeProfit(spec, order.Type, req.Price, req.TakeProfit),
		validFreezeLevel(spec, market, req.Price, "price"),
		validFreezeLevel(spec, market, req.StopLoss, "sl"),
		validFreezeLevel(spec, market, req.TakeProfit, "tp"),
	} {
		if rej != nil {
			return e.rejected(rej.result(), req)
		}
	}

	order.PriceOpen = req.Price
	order.StopLoss = req.StopLoss
	order.TakeProfit = req.TakeProfit
	order.PriceStopLimit = req.PriceStopLimit
	order.Expiration = req.Expiration
	e.post(bus.OrderPlacedEvent, *order)

	return common.TradeResult{Retcode: common.RetcodeDone, Order: order.Ticket}
}

// removeOrder cancels a pending order. Removing an unknown ticket is a no-op
// that still reports success.
func (e *Engine) removeOrder(req common.TradeRequest) common.TradeResult {
	idx := e.orderIndex(req.Order)
	if idx < 0 {
		return common.TradeResult{Retcode: common.RetcodeDone}
	}
	order := e.orders[idx]
	e.orders = append(e.orders[:idx], e.orders[idx+1:]...)

	order.State = common.OrderStateCanceled
	if tick, err := e.ticks.GetTick(order.Symbol); err == nil {
		order.TimeDone = tick.TimeStamp
	}
	e.historyOrders = append(e.historyOrders, order)
	e.post(bus.OrderCanceledEvent, order)

	return common.TradeResult{Retcode: common.RetcodeDone, Order: order.Ticket}
}

// appendDeal records a fill, applies its balance impact and forwards it to
// the journal. Journal failures are logged and otherwise ignored.
func (e *Engine) appendDeal(deal common.Deal) {
	e.deals = append(e.deals, deal)
	e.account.Balance = e.account.Balance.Add(deal.Profit).Add(deal.Commission).Add(deal.Swap)

	if e.journal != nil {
		if err := e.journal.Append(deal, e.account.Balance); err != nil {
			e.log.Warn("journal append failed", zap.Int64("deal", deal.Ticket), zap.Error(err))
		}
	}
	e.post(bus.DealEvent, deal)
}

// refreshAggregates recomputes every open position's floating profit and
// margin from the latest quotes, then rebuilds the account aggregate. Stale
// quotes or calculation errors keep the previous per-position values.
func (e *Engine) refreshAggregates() {
	totalProfit := fixed.Zero
	totalMargin := fixed.Zero

	for i := range e.positions {
		position := &e.positions[i]

		spec, err := e.symbols.GetSymbol(position.Symbol)
		if err != nil {
			e.log.Error("symbol lookup failed", zap.String("symbol", position.Symbol), zap.Error(err))
			totalProfit = totalProfit.Add(position.Profit)
			totalMargin = totalMargin.Add(position.Margin)
			continue
		}
		tick, err := e.ticks.GetTick(position.Symbol)
		if err != nil {
			e.log.Error("tick lookup failed", zap.String("symbol", position.Symbol), zap.Error(err))
			totalProfit = totalProfit.Add(position.Profit)
			totalMargin = totalMargin.Add(position.Margin)
			continue
		}

		profit, err := OrderProfit(spec, position.Type.OrderType(), position.Volume, position.PriceOpen, position.ClosePrice(tick))
		if err == nil {
			position.Profit = profit
		} else {
			e.log.Error("profit refresh failed", zap.Int64("position", position.Ticket), zap.Error(err))
		}
		margin, err := OrderMargin(spec, e.account.Leverage, position.Volume, position.PriceOpen)
		if err == nil {
			position.Margin = margin
		} else {
			e.log.Error("margin refresh failed", zap.Int64("position", position.Ticket), zap.Error(err))
		}

		totalProfit = totalProfit.Add(position.Profit)
		totalMargin = totalMargin.Add(position.Margin)
	}

	e.account.Refresh(totalProfit, totalMargin)
}

func (e *Engine) marketData(symbol string) (common.SymbolSpec, common.Tick, *rejection) {
	spec, err := e.symbols.GetSymbol(symbol)
	if err != nil {
		e.log.Error("symbol lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return common.SymbolSpec{}, common.Tick{}, rejectf(common.RetcodeInvalid, "unknown symbol %s", symbol)
	}
	tick, err := e.ticks.GetTick(symbol)
	if err != nil {
		e.log.Error("tick lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return common.SymbolSpec{}, common.Tick{}, rejectf(common.RetcodeInvalid, "no quote for %s", symbol)
	}
	return spec, tick, nil
}

func (e *Engine) positionIndex(ticket common.Ticket) int {
	for i := range e.positions {
		if e.positions[i].Ticket == ticket {
			return i
		}
	}
	return -1
}

func (e *Engine) orderIndex(ticket common.Ticket) int {
	for i := range e.orders {
		if e.orders[i].Ticket == ticket {
			return i
		}
	}
	return -1
}

// symbolVolume sums the open position and pending order volume on a symbol.
func (e *Engine) symbolVolume(symbol string) fixed.Point {
	total := fixed.Zero
	for i := range e.positions {
		if e.positions[i].Symbol == symbol {
			total = total.Add(e.positions[i].Volume)
		}
	}
	for i := range e.orders {
		if e.orders[i].Symbol == symbol {
			total = total.Add(e.orders[i].Volume)
		}
	}
	return total
}

func (e *Engine) rejected(result common.TradeResult, req common.TradeRequest) common.TradeResult {
	e.log.Warn("request rejected",
		zap.Stringer("action", req.Action),
		zap.Stringer("type", req.Type),
		zap.String("symbol", req.Symbol),
		zap.Stringer("retcode", result.Retcode),
		zap.String("reason", result.Reason))
	e.post(bus.OrderRejectedEvent, result)
	return result
}

func (e *Engine) post(id bus.EventId, data interface{}) {
	if e.router == nil {
		return
	}
	if err := e.router.Post(id, data); err != nil {
		e.log.Warn("event post failed", zap.Stringer("event", id), zap.Error(err))
	}
}

func (r *rejection) result() common.TradeResult {
	return common.Reject(r.code, r.reason)
}

func positionTypeOf(orderType common.OrderType) common.PositionType {
	if orderType.IsSell() {
		return common.PositionTypeSell
	}
	return common.PositionTypeBuy
}

// inferReason classifies a fill by comparing its price against the stop
// levels it may have hit.
func inferReason(spec common.SymbolSpec, price, sl, tp fixed.Point) common.DealReason {
	if sl.IsPos() && spec.PriceEqual(price, sl) {
		return common.DealReasonSL
	}
	if tp.IsPos() && spec.PriceEqual(price, tp) {
		return common.DealReasonTP
	}
	return common.DealReasonExpert
}
