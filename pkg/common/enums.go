package common

// Ticket identifies an order, position or deal. Tickets are unique and
// strictly increasing within a run, across all three entity kinds.
type Ticket = int64

type TradeAction int

const (
	ActionDeal TradeAction = iota
	ActionPending
	ActionSLTP
	ActionModify
	ActionRemove
)

func (a TradeAction) String() string {
	switch a {
	case ActionDeal:
		return "deal"
	case ActionPending:
		return "pending"
	case ActionSLTP:
		return "sltp"
	case ActionModify:
		return "modify"
	case ActionRemove:
		return "remove"
	}
	return "unknown"
}

type OrderType int

const (
	OrderTypeBuy OrderType = iota
	OrderTypeSell
	OrderTypeBuyLimit
	OrderTypeSellLimit
	OrderTypeBuyStop
	OrderTypeSellStop
	OrderTypeBuyStopLimit
	OrderTypeSellStopLimit
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeBuy:
		return "buy"
	case OrderTypeSell:
		return "sell"
	case OrderTypeBuyLimit:
		return "buy-limit"
	case OrderTypeSellLimit:
		return "sell-limit"
	case OrderTypeBuyStop:
		return "buy-stop"
	case OrderTypeSellStop:
		return "sell-stop"
	case OrderTypeBuyStopLimit:
		return "buy-stop-limit"
	case OrderTypeSellStopLimit:
		return "sell-stop-limit"
	}
	return "unknown"
}

func (t OrderType) IsBuy() bool {
	switch t {
	case OrderTypeBuy, OrderTypeBuyLimit, OrderTypeBuyStop, OrderTypeBuyStopLimit:
		return true
	}
	return false
}

func (t OrderType) IsSell() bool {
	switch t {
	case OrderTypeSell, OrderTypeSellLimit, OrderTypeSellStop, OrderTypeSellStopLimit:
		return true
	}
	return false
}

func (t OrderType) IsMarket() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

func (t OrderType) IsPending() bool {
	return !t.IsMarket() && (t.IsBuy() || t.IsSell())
}

// Direction is +1 for the buy family and -1 for the sell family.
func (t OrderType) Direction() int {
	if t.IsSell() {
		return -1
	}
	return 1
}

type PositionType int

const (
	PositionTypeBuy PositionType = iota
	PositionTypeSell
)

func (t PositionType) String() string {
	if t == PositionTypeSell {
		return "sell"
	}
	return "buy"
}

// Opposite returns the market order type that closes a position of this type.
func (t PositionType) Opposite() OrderType {
	if t == PositionTypeBuy {
		return OrderTypeSell
	}
	return OrderTypeBuy
}

func (t PositionType) OrderType() OrderType {
	if t == PositionTypeBuy {
		return OrderTypeBuy
	}
	return OrderTypeSell
}

type OrderState int

const (
	OrderStateStarted OrderState = iota
	OrderStatePlaced
	OrderStateFilled
	OrderStateCanceled
	OrderStateExpired
	OrderStateRejected
)

func (s OrderState) String() string {
	switch s {
	case OrderStateStarted:
		return "started"
	case OrderStatePlaced:
		return "placed"
	case OrderStateFilled:
		return "filled"
	case OrderStateCanceled:
		return "canceled"
	case OrderStateExpired:
		return "expired"
	case OrderStateRejected:
		return "rejected"
	}
	return "unknown"
}

type DealEntry int

const (
	DealEntryIn DealEntry = iota
	DealEntryOut
)

func (e DealEntry) String() string {
	if e == DealEntryOut {
		return "out"
	}
	return "in"
}

type DealReason int

const (
	DealReasonExpert DealReason = iota
	DealReasonSL
	DealReasonTP
)

func (r DealReason) String() string {
	switch r {
	case DealReasonSL:
		return "sl"
	case DealReasonTP:
		return "tp"
	}
	return "expert"
}

// Retcode is the closed set of order_send outcomes. A strategy switches on
// these the same way it would on the live venue's return codes.
type Retcode int

const (
	RetcodeDone Retcode = iota
	RetcodeInvalid
	RetcodeInvalidVolume
	RetcodeInvalidPrice
	RetcodeInvalidStops
	RetcodeNoMoney
	RetcodeLimitOrders
	RetcodeLimitVolume
)

func (r Retcode) String() string {
	switch r {
	case RetcodeDone:
		return "done"
	case RetcodeInvalid:
		return "invalid"
	case RetcodeInvalidVolume:
		return "invalid-volume"
	case RetcodeInvalidPrice:
		return "invalid-price"
	case RetcodeInvalidStops:
		return "invalid-stops"
	case RetcodeNoMoney:
		return "no-money"
	case RetcodeLimitOrders:
		return "limit-orders"
	case RetcodeLimitVolume:
		return "limit-volume"
	}
	return "unknown"
}

type MarginMode int

const (
	MarginModeForex MarginMode = iota
	MarginModeForexNoLeverage
	MarginModeCFD
	MarginModeCFDIndex
	MarginModeCFDLeverage
	MarginModeExchangeStocks
	MarginModeFutures
	MarginModeExchangeFutures
	MarginModeExchangeBonds
	MarginModeServerCollateral
)

func (m MarginMode) String() string {
	switch m {
	case MarginModeForex:
		return "forex"
	case MarginModeForexNoLeverage:
		return "forex-no-leverage"
	case MarginModeCFD:
		return "cfd"
	case MarginModeCFDIndex:
		return "cfd-index"
	case MarginModeCFDLeverage:
		return "cfd-leverage"
	case MarginModeExchangeStocks:
		return "exchange-stocks"
	case MarginModeFutures:
		return "futures"
	case MarginModeExchangeFutures:
		return "exchange-futures"
	case MarginModeExchangeBonds:
		return "exchange-bonds"
	case MarginModeServerCollateral:
		return "server-collateral"
	}
	return "unknown"
}
