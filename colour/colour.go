// Package colour models the ten-position colour state of the LED matrix and
// its wire encoding.
//
// The service expects the state as a JSON object keyed by the decimal
// position ("0".."9") where every value is an [R,G,B] array:
//
//	{"0":[255,0,0],"1":[255,0,0],...,"9":[255,0,0]}
//
// Encode and Decode are pure and round-trip exactly.
package colour

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/enverbisevac/cbn/errors"
)

// Positions is the number of addressable LEDs on the matrix.
const Positions = 10

var (
	Black = Colour{}
	White = Colour{Red: 255, Green: 255, Blue: 255}
	Red   = Colour{Red: 255}
	Green = Colour{Green: 255}
	Blue  = Colour{Blue: 255}
)

// Colour is an 8-bit RGB triple.
type Colour struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// RGB returns a Colour from raw channel values.
func RGB(r, g, b uint8) Colour {
	return Colour{Red: r, Green: g, Blue: b}
}

// String returns the wire form of c.
func (c Colour) String() string {
	return string(c.appendJSON(nil))
}

func (c Colour) appendJSON(buf []byte) []byte {
	buf = append(buf, '[')
	buf = strconv.AppendUint(buf, uint64(c.Red), 10)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, uint64(c.Green), 10)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, uint64(c.Blue), 10)
	return append(buf, ']')
}

// MarshalJSON encodes c as [R,G,B].
func (c Colour) MarshalJSON() ([]byte, error) {
	return c.appendJSON(make([]byte, 0, 13)), nil
}

// UnmarshalJSON decodes a 3-element array of integers in [0,255].
func (c *Colour) UnmarshalJSON(data []byte) error {
	var channels []json.RawMessage
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("colour: %w", err)
	}
	if len(channels) != 3 {
		return fmt.Errorf("colour: expected 3 channels, got %d", len(channels))
	}

	var rgb [3]uint8
	for i, ch := range channels {
		v, err := strconv.ParseUint(string(bytes.TrimSpace(ch)), 10, 8)
		if err != nil {
			return fmt.Errorf("colour: channel %d: %s is not an integer in range [0,255]", i, ch)
		}
		rgb[i] = uint8(v)
	}
	*c = Colour{Red: rgb[0], Green: rgb[1], Blue: rgb[2]}
	return nil
}

// EncodeColour returns the wire form of c, e.g. [128,127,129].
func EncodeColour(c Colour) string {
	return c.String()
}

// State assigns a colour to every position of the matrix.
type State [Positions]Colour

// Uniform returns a state with c on every position.
func Uniform(c Colour) State {
	var s State
	for i := range s {
		s[i] = c
	}
	return s
}

// MarshalJSON encodes s as an object keyed "0".."9" in ascending order.
func (s State) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 16*Positions)
	buf = append(buf, '{')
	for i, c := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '"')
		buf = strconv.AppendInt(buf, int64(i), 10)
		buf = append(buf, '"', ':')
		buf = c.appendJSON(buf)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON decodes an object that holds exactly the keys "0".."9".
func (s *State) UnmarshalJSON(data []byte) error {
	var entries map[string]Colour
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if entries == nil {
		return fmt.Errorf("colour state: expected object, got null")
	}
	if len(entries) != Positions {
		return fmt.Errorf("colour state: expected %d positions, got %d", Positions, len(entries))
	}

	var out State
	for i := range out {
		c, ok := entries[strconv.Itoa(i)]
		if !ok {
			return fmt.Errorf("colour state: position %d missing", i)
		}
		out[i] = c
	}
	*s = out
	return nil
}

// Encode returns the JSON wire form of s.
func Encode(s State) string {
	data, _ := s.MarshalJSON()
	return string(data)
}

// Decode parses the JSON wire form produced by Encode.
func Decode(data string) (State, error) {
	var s State
	if err := s.UnmarshalJSON([]byte(data)); err != nil {
		return State{}, errors.InvalidArgument("invalid colour state").Source(err)
	}
	return s, nil
}
