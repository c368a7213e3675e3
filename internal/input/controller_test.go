package input

import "testing"

func TestReadReturnsButtonsLowBitFirst(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true) // bit 3
	c.Write(0x01)                 // strobe high, latches live state
	c.Write(0x00)                 // strobe low, freezes shift register

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d = %d, want %d", i, got, w)
		}
	}
}

func TestReadWhileStrobedAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(0x01)
	if got := c.Read(); got != 1 {
		t.Fatalf("Read() = %d, want 1", got)
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("second Read() while strobed = %d, want 1 (no advance)", got)
	}
}

func TestJoypadRoutesPortsIndependently(t *testing.T) {
	j := NewJoypad()
	j.Port1.SetButton(ButtonA, true)
	j.Port2.SetButton(ButtonB, true)
	j.Write(0x4016, 0x01)
	j.Write(0x4016, 0x00)
	if got := j.Read(0x4016); got != 1 {
		t.Fatalf("port1 read = %d, want 1", got)
	}
	if got := j.Read(0x4017); got != 0 {
		t.Fatalf("port2 bit0 read = %d, want 0 (button B is bit 1)", got)
	}
}
