package keyhook

// heldKeys tells a fresh press from an auto-repeat for backends that report
// both as the same key-down event.
type heldKeys struct {
	forward bool
	held    map[uint16]bool
}

func newHeldKeys(forward bool) *heldKeys {
	return &heldKeys{forward: forward, held: make(map[uint16]bool)}
}

// press reports whether code was already down and whether the event should
// be delivered.
func (h *heldKeys) press(code uint16) (repeat, deliver bool) {
	repeat = h.held[code]
	h.held[code] = true
	return repeat, !repeat || h.forward
}

func (h *heldKeys) release(code uint16) {
	delete(h.held, code)
}
