package cpu

const (
	HISTORY_LIMIT = 16 // Number of executed PCs retained.
)

// History is a bounded record of recently executed instruction addresses.
type History struct {
	Data []uint32
}

// Push records a PC, dropping the oldest entry when full.
func (h *History) Push(pc uint32) {
	if h.Full() {
		copy(h.Data, h.Data[1:])
		h.Data[len(h.Data)-1] = pc
		return
	}
	h.Data = append(h.Data, pc)
}

func (h *History) Empty() bool {
	return len(h.Data) == 0
}

func (h *History) Full() bool {
	return len(h.Data) == HISTORY_LIMIT
}

// Peek returns the most recent PC.
func (h *History) Peek() (pc uint32, ok bool) {
	if h.Empty() {
		return
	}

	return h.Data[len(h.Data)-1], true
}

func (h *History) Reset() {
	if len(h.Data) > 0 {
		h.Data = h.Data[:0]
	}
}
