package main

import (
	"fmt"
	"time"

	"github.com/enverbisevac/cbn/colour"
	"github.com/enverbisevac/cbn/errors"
	"github.com/spf13/cobra"
)

type paintOptions struct {
	fill      rgbValue
	positions positionsValue
	palette   string
}

// state builds the colour state from palette file, fill and positions, in
// that order. Unset positions are black.
func (o *paintOptions) state() (colour.State, error) {
	var s colour.State
	if o.palette == "" && !o.fill.set && len(o.positions) == 0 {
		return s, errors.InvalidArgument("no colours given, use --fill, --colour or --palette")
	}

	if o.palette != "" {
		p, err := loadPalette(o.palette)
		if err != nil {
			return s, err
		}
		p.apply(&s)
	}
	if o.fill.set {
		s = colour.Uniform(o.fill.colour)
	}
	for _, a := range o.positions {
		s[a.position] = a.colour
	}
	return s, nil
}

func newPaintCommand(a *app) *cobra.Command {
	var opts paintOptions

	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Acquire the lock and submit a colour state",
		Example: `  cbn paint --fill 255,0,0
  cbn paint --fill 0,0,0 --colour 0=255,255,255 --colour 9=255,255,255
  cbn paint --palette sunset.yaml --retries 10 --retry-interval 2s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := opts.state()
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			ctx := a.context(cmd.Context())
			retries := a.v.GetInt("retries")
			interval := a.v.GetDuration("retry-interval")
			if retries < 1 {
				return errors.InvalidArgument("retries must be at least 1, got %d", retries)
			}

			l, err := client.AcquireRetry(ctx, retries, interval)
			if err != nil {
				return err
			}
			a.log.V(1).Info("painting", "state", colour.Encode(state))
			if err := client.Submit(ctx, l, state); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "painted %s\n", colour.Encode(state))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Var(&opts.fill, "fill", "colour for every position")
	flags.VarP(&opts.positions, "colour", "c", "colour for one position, repeatable")
	flags.StringVar(&opts.palette, "palette", "", "yaml file with fill and per-position colours")
	flags.Int("retries", 1, "lock attempts while the device is busy")
	flags.Duration("retry-interval", time.Second, "wait between lock attempts")

	a.bindFlag("retries", flags.Lookup("retries"))
	a.bindFlag("retry-interval", flags.Lookup("retry-interval"))

	return cmd
}
