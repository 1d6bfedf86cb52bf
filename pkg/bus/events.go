package bus

type EventId uint8

const (
	TickEvent EventId = iota
	BarEvent
	SnapshotEvent
	PositionOpenedEvent
	PositionClosedEvent
	PositionUpdatedEvent
	OrderPlacedEvent
	OrderFilledEvent
	OrderCanceledEvent
	OrderExpiredEvent
	OrderRejectedEvent
	DealEvent
)

func (id EventId) String() string {
	switch id {
	case TickEvent:
		return "tick"
	case BarEvent:
		return "bar"
	case SnapshotEvent:
		return "snapshot"
	case PositionOpenedEvent:
		return "position-opened"
	case PositionClosedEvent:
		return "position-closed"
	case PositionUpdatedEvent:
		return "position-updated"
	case OrderPlacedEvent:
		return "order-placed"
	case OrderFilledEvent:
		return "order-filled"
	case OrderCanceledEvent:
		return "order-canceled"
	case OrderExpiredEvent:
		return "order-expired"
	case OrderRejectedEvent:
		return "order-rejected"
	case DealEvent:
		return "deal"
	}
	return "unknown"
}
