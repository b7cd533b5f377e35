package main

import (
	"encoding/json"
	"fmt"

	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/lock"
	"github.com/enverbisevac/cbn/openapi"
	"github.com/spf13/cobra"
)

func newSchemaCommand() *cobra.Command {
	var (
		document bool
		prefix   string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the service response envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				v   any
				err error
			)
			if document {
				v, err = openapi.Document(prefix)
			} else {
				v, err = lock.EnvelopeSchema()
			}
			if err != nil {
				return errors.Internal("reflect schema").Source(err)
			}

			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return errors.Internal("marshal schema").Source(err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&document, "openapi", false, "print the OpenAPI document of both endpoints instead")
	flags.StringVar(&prefix, "prefix", "/cbn-live", "path prefix used in the OpenAPI document")
	return cmd
}
