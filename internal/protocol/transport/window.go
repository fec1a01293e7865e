package transport

// Sliding-window replay filter in the style of RFC 6479. Counters are
// tracked as one bit each inside a ring of 64-bit blocks, so accepting a
// counter far ahead only needs the intervening blocks cleared rather than a
// per-bit shift.
//
// The filter is split into a read-only seen check and a separate mark so
// that a forged ciphertext, which fails authentication after the check, can
// never consume a counter value the genuine message still needs.

const (
	blockBitsLog = 6
	blockBits    = 1 << blockBitsLog
	windowBlocks = 16

	// windowSize is how far behind the highest accepted counter a message
	// may arrive and still be considered. One block is sacrificial.
	windowSize = (windowBlocks - 1) * blockBits
)

type window struct {
	last   uint64
	blocks [windowBlocks]uint64
}

// seen reports whether counter was already accepted or has fallen behind
// the window. It never modifies the filter.
func (w *window) seen(counter uint64) bool {
	if counter > w.last {
		return false
	}
	if counter+windowSize < w.last {
		return true
	}
	block := (counter >> blockBitsLog) % windowBlocks
	return w.blocks[block]>>(counter&(blockBits-1))&1 == 1
}

// mark records counter as accepted. Callers must have cleared it with seen
// first; mark is only invoked after the payload authenticates.
func (w *window) mark(counter uint64) {
	if counter > w.last {
		cur := w.last >> blockBitsLog
		top := counter >> blockBitsLog
		diff := top - cur
		if diff > windowBlocks {
			diff = windowBlocks
		}
		for i := uint64(1); i <= diff; i++ {
			w.blocks[(cur+i)%windowBlocks] = 0
		}
		w.last = counter
	}
	block := (counter >> blockBitsLog) % windowBlocks
	w.blocks[block] |= 1 << (counter & (blockBits - 1))
}
