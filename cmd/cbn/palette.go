package main

import (
	"os"

	"github.com/enverbisevac/cbn/colour"
	"github.com/enverbisevac/cbn/errors"
	"gopkg.in/yaml.v3"
)

// palette is the on-disk form of a colour state:
//
//	fill: [0, 0, 0]
//	colours:
//	  0: [255, 0, 0]
//	  9: [0, 0, 255]
type palette struct {
	Fill    *[3]uint8        `yaml:"fill"`
	Colours map[int][3]uint8 `yaml:"colours"`
}

func loadPalette(path string) (*palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidArgument("read palette %q", path).Source(err)
	}

	var p palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.InvalidArgument("parse palette %q", path).Source(err)
	}
	for position := range p.Colours {
		if position < 0 || position >= colour.Positions {
			return nil, errors.InvalidArgument("palette %q: position %d out of range [0,%d]", path, position, colour.Positions-1)
		}
	}
	return &p, nil
}

// apply paints p onto s. Fill goes first so explicit positions win.
func (p *palette) apply(s *colour.State) {
	if p.Fill != nil {
		*s = colour.Uniform(colour.RGB(p.Fill[0], p.Fill[1], p.Fill[2]))
	}
	for position, rgb := range p.Colours {
		s[position] = colour.RGB(rgb[0], rgb[1], rgb[2])
	}
}
