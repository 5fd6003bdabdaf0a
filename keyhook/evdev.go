package keyhook

import (
	"encoding/binary"
	"time"
)

const (
	evKey      = 1
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

// decodeKeyDowns extracts key-down events from a raw evdev read. Auto-repeat
// entries are kept only when repeat is set.
func decodeKeyDowns(buf []byte, device string, repeat bool) []Event {
	var out []Event
	for i := 0; i+inputEventSize <= len(buf); i += inputEventSize {
		evType := binary.LittleEndian.Uint16(buf[i+16:])
		evCode := binary.LittleEndian.Uint16(buf[i+18:])
		evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

		if evType != evKey {
			continue
		}
		if evValue != keyPress && !(repeat && evValue == keyRepeat) {
			continue
		}

		sec := int64(binary.LittleEndian.Uint64(buf[i:]))
		usec := int64(binary.LittleEndian.Uint64(buf[i+8:]))
		out = append(out, Event{
			Keycode: int(evCode),
			Rawcode: int(evCode),
			Time:    time.Unix(sec, usec*1000),
			Device:  device,
			Repeat:  evValue == keyRepeat,
		})
	}
	return out
}
