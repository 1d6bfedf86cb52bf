package historical

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// BinaryTick is the on-disk record layout: nanosecond timestamp followed by
// four float64 fields, no padding.
type BinaryTick struct {
	TimeStamp int64
	Bid       float64
	Ask       float64
	Last      float64
	Volume    float64
}

func (b BinaryTick) ToTick(tick *common.Tick) {
	tick.TimeStamp = time.Unix(0, b.TimeStamp)
	tick.Bid = fixed.FromFloat64(b.Bid)
	tick.Ask = fixed.FromFloat64(b.Ask)
	tick.Last = fixed.FromFloat64(b.Last)
	tick.Volume = fixed.FromFloat64(b.Volume)
}
