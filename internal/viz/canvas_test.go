package viz

import (
	"image/color"
	"strings"
	"testing"
)

var red = color.RGBA{R: 255, A: 255}

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("unexpected sub size %dx%d", c.SubWidth(), c.SubHeight())
	}

	c.Set(3, 5, red)
	if !c.IsSet(3, 5) {
		t.Error("expected dot to be set")
	}
	if got := c.Grid[1][1]; got != blank|0x10 {
		t.Errorf("expected %U, got %U", blank|0x10, got)
	}
	if c.Colors[1][1] != red {
		t.Errorf("expected cell color to be recorded")
	}

	c.Unset(3, 5)
	if c.IsSet(3, 5) || c.Grid[1][1] != blank {
		t.Error("expected dot to be cleared")
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0, red)
	c.Set(0, -1, red)
	c.Set(4, 0, red)
	c.Set(0, 8, red)
	if strings.Trim(c.Plain(), "⠀\n") != "" {
		t.Error("out of bounds writes must be ignored")
	}
	if c.IsSet(100, 100) {
		t.Error("out of bounds dot cannot be set")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.DrawLine(0, 0, 5, 11, red)
	c.Clear()
	for i := range c.Grid {
		for j := range c.Grid[i] {
			if c.Grid[i][j] != blank || c.Colors[i][j] != (color.RGBA{}) {
				t.Fatalf("cell %d,%d not cleared", i, j)
			}
		}
	}
}

func TestCanvasDrawDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawDisc(10, 10, 0, red)
	if !c.IsSet(10, 10) || c.IsSet(11, 10) {
		t.Error("radius 0 should light exactly one dot")
	}

	c.Clear()
	c.DrawDisc(10, 10, 2, red)
	for _, p := range [][2]int{{10, 8}, {12, 10}, {8, 10}, {10, 12}, {11, 11}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected %v inside the disc", p)
		}
	}
	if c.IsSet(12, 12) {
		t.Error("corner should be outside the disc")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0, red)
	for x := 0; x < 10; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected dot %d on the line", x)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.Plain(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "⠀⠀⠀" {
		t.Errorf("unexpected blank row %q", lines[0])
	}

	c.Set(0, 0, red)
	if !strings.Contains(c.String(), "⠁") {
		t.Error("expected the lit cell in the rendered output")
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{R: 0xab, G: 0x01, B: 0xff}); got != "#ab01ff" {
		t.Errorf("got %s", got)
	}
}
