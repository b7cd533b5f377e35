package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enverbisevac/cbn/colour"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*rgbValue)(nil)
	_ pflag.Value = (*positionsValue)(nil)
)

// parseRGB parses "r,g,b" with every channel in [0,255].
func parseRGB(s string) (colour.Colour, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colour.Colour{}, fmt.Errorf("colour %q: expected r,g,b", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return colour.Colour{}, fmt.Errorf("colour %q: channel %d must be an integer in [0,255]", s, i)
		}
		rgb[i] = uint8(v)
	}
	return colour.RGB(rgb[0], rgb[1], rgb[2]), nil
}

func formatRGB(c colour.Colour) string {
	return fmt.Sprintf("%d,%d,%d", c.Red, c.Green, c.Blue)
}

type rgbValue struct {
	colour colour.Colour
	set    bool
}

func (v *rgbValue) String() string {
	if !v.set {
		return ""
	}
	return formatRGB(v.colour)
}

func (v *rgbValue) Set(s string) error {
	c, err := parseRGB(s)
	if err != nil {
		return err
	}
	v.colour, v.set = c, true
	return nil
}

func (v *rgbValue) Type() string {
	return "r,g,b"
}

type assignment struct {
	position int
	colour   colour.Colour
}

// positionsValue collects repeated i=r,g,b flags.
type positionsValue []assignment

func (v *positionsValue) String() string {
	parts := make([]string, 0, len(*v))
	for _, a := range *v {
		parts = append(parts, strconv.Itoa(a.position)+"="+formatRGB(a.colour))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (v *positionsValue) Set(s string) error {
	index, rgb, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("%q: expected i=r,g,b", s)
	}
	position, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil || position < 0 || position >= colour.Positions {
		return fmt.Errorf("%q: position must be in [0,%d]", s, colour.Positions-1)
	}
	c, err := parseRGB(rgb)
	if err != nil {
		return err
	}
	*v = append(*v, assignment{position: position, colour: c})
	return nil
}

func (v *positionsValue) Type() string {
	return "i=r,g,b"
}
