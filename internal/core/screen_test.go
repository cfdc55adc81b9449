package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != (Cell{Rune: ' '}) {
				t.Fatalf("new screen cell (%d, %d) = %+v, want blank", x, y, c)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.SetColor(0, -1, ColorRed)
	s.SetCell(0, 100, Cell{Rune: 'A'})

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.GetCell(100, 0) != (Cell{Rune: ' '}) {
		t.Error("Out of bounds GetCell should return a blank cell")
	}
}

func TestScreenColors(t *testing.T) {
	s := NewScreen(10, 2)

	s.DrawTextColor(1, 0, "2048", ColorOrange)
	for i, r := range "2048" {
		c := s.GetCell(1+i, 0)
		if c.Rune != r || c.Color != ColorOrange {
			t.Errorf("cell %d = %+v, want %q in orange", 1+i, c, r)
		}
	}

	s.SetColor(0, 1, ColorCyan)
	if c := s.GetCell(0, 1); c.Rune != ' ' || c.Color != ColorCyan {
		t.Errorf("SetColor changed rune or missed color: %+v", c)
	}

	// Plain Set resets the color
	s.Set(1, 0, 'x')
	if c := s.GetCell(1, 0); c.Color != ColorDefault {
		t.Errorf("Set kept color %v, want default", c.Color)
	}

	if !strings.HasPrefix(s.Row(0), " x048") {
		t.Errorf("Row(0) = %q, colors should not leak into text", s.Row(0))
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(Rect{X: 0, Y: 0, W: 10, H: 10}, 'X')
	s.SetColor(3, 3, ColorRed)

	s.Clear()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c := s.GetCell(x, y); c != (Cell{Rune: ' '}) {
				t.Fatalf("after Clear, cell (%d, %d) = %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawText(2, 1, "Hello")

	if got := s.Row(1); got != "  Hello   " {
		t.Errorf("Row(1) = %q, want %q", got, "  Hello   ")
	}

	// Clipped at the right edge
	s.DrawText(8, 0, "ABCD")
	if got := s.Row(0); got != "        AB" {
		t.Errorf("Row(0) = %q, want clipped text", got)
	}

	// Multi-byte runes take one cell each
	s.DrawText(0, 2, "┌─┐")
	if s.Get(2, 2) != '┐' {
		t.Errorf("Get(2, 2) = %q, want '┐'", s.Get(2, 2))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "Hi")

	if got := s.Row(0); got != "    Hi    " {
		t.Errorf("Row(0) = %q, want centered text", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(Rect{X: 0, Y: 0, W: 5, H: 4})

	expected := []string{
		"┌───┐",
		"│   │",
		"│   │",
		"└───┘",
	}
	for y, want := range expected {
		if got := s.Row(y); got != want {
			t.Errorf("Row(%d) = %q, want %q", y, got, want)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawTextColor(0, 1, "BBBBB", ColorBlue)
	s.DrawText(0, 2, "CCCCC")

	result := s.String()
	expected := "AAAAA\nBBBBB\nCCCCC"

	if result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColor(0, 0, "Hello", ColorGreen)
	s.DrawText(0, 5, "World")

	// Resize smaller - should preserve top-left content
	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}

	if row0 := s.Row(0); !strings.HasPrefix(row0, "Hello") {
		t.Errorf("Content should be preserved, row 0 = %q", row0)
	}
	if s.GetCell(0, 0).Color != ColorGreen {
		t.Error("Resize dropped cell colors")
	}

	// Resize larger - old content should still be there
	s.Resize(15, 8)
	if row0 := s.Row(0); !strings.HasPrefix(row0, "Hello") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", row0)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test")

	row := s.Row(2)
	if !strings.HasPrefix(row, "Test") {
		t.Errorf("Row(2) should start with 'Test', got %q", row)
	}
	if len(row) != 10 {
		t.Errorf("Row length should be 10, got %d", len(row))
	}

	if outOfBounds := s.Row(-1); outOfBounds != "          " {
		t.Errorf("Out of bounds row should be spaces, got %q", outOfBounds)
	}
}

func TestRect(t *testing.T) {
	r := Centered(10, 5, 6, 4)

	if r.X != 7 || r.Y != 3 || r.Right() != 13 || r.Bottom() != 7 {
		t.Errorf("Centered(10, 5, 6, 4) = %+v", r)
	}
	if !r.Contains(7, 3) || r.Contains(13, 3) || r.Contains(7, 7) {
		t.Error("Contains should include the top-left corner and exclude the far edges")
	}
}

func TestInputFrame(t *testing.T) {
	f := FrameOf(ActionLeft, ActionHint)

	if !f.Has(ActionLeft) || !f.Has(ActionHint) || f.Has(ActionRight) {
		t.Errorf("FrameOf actions = %v", f.Actions)
	}
	if f.Empty() {
		t.Error("Empty() = true for a populated frame")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Empty() = false after Clear")
	}

	var zero InputFrame
	if zero.Has(ActionUp) {
		t.Error("zero frame reports an action")
	}
	zero.Set(ActionAutopilot)
	if !zero.Has(ActionAutopilot) {
		t.Error("Set on zero frame was lost")
	}
	if ActionAutopilot.String() != "Autopilot" {
		t.Errorf("ActionAutopilot.String() = %q", ActionAutopilot.String())
	}
}
