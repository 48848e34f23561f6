package strategy

import (
	"mmclient/pkg/quant"
)

// refWindowSize is the trailing fill count averaged per side.
const refWindowSize = 3

// RefWindow is a fixed-size ring over the last refWindowSize fill
// prices of one side, seeded with zeros. The zero seed biases the
// average low on early ticks; the quoter's warmup gate covers that
// window-filling period.
type RefWindow struct {
	slots [refWindowSize]quant.PriceMicros
	head  int
}

// NewRefWindow returns a zero-seeded window.
func NewRefWindow() *RefWindow {
	return &RefWindow{}
}

// Record inserts a fill price, evicting the oldest slot.
func (w *RefWindow) Record(price quant.PriceMicros) {
	w.slots[w.head] = price
	w.head = (w.head + 1) % refWindowSize
}

// AverageMicros is the arithmetic mean of the stored slots, truncated
// to the micros grid.
func (w *RefWindow) AverageMicros() quant.PriceMicros {
	var sum int64
	for _, p := range w.slots {
		sum += int64(p)
	}
	return quant.PriceMicros(sum / refWindowSize)
}

// Len is always refWindowSize once constructed; evictions keep it fixed.
func (w *RefWindow) Len() int {
	return refWindowSize
}
