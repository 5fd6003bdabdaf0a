package keyhook

import "testing"

func TestHeldKeysForwardsRepeatsByDefault(t *testing.T) {
	h := newHeldKeys(ForwardRepeats)
	steps := []struct {
		code    uint16
		repeat  bool
		deliver bool
	}{
		{30, false, true},
		{30, true, true},
		{30, true, true},
		{31, false, true},
	}
	for i, s := range steps {
		repeat, deliver := h.press(s.code)
		if repeat != s.repeat || deliver != s.deliver {
			t.Errorf("step %d: press(%d) = %v,%v want %v,%v", i, s.code, repeat, deliver, s.repeat, s.deliver)
		}
	}
	h.release(30)
	if repeat, _ := h.press(30); repeat {
		t.Error("press after release should be fresh")
	}
}

func TestHeldKeysDropsRepeatsWhenDisabled(t *testing.T) {
	h := newHeldKeys(false)
	if _, deliver := h.press(30); !deliver {
		t.Fatal("first press should be delivered")
	}
	if repeat, deliver := h.press(30); !repeat || deliver {
		t.Errorf("repeat = %v deliver = %v, want true,false", repeat, deliver)
	}
}
