package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLockCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Request the device lock once and print its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			l, err := client.Acquire(a.context(cmd.Context()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token: %s\n", l.Token)
			if ttl, ok := l.TTL(); ok {
				fmt.Fprintf(out, "max duration: %s\n", ttl)
			}
			return nil
		},
	}
}
