package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/randori-export/pkg/query"
)

func newQueryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the record filter sent as q",
		Long: `Prints the base64 filter every export request carries. With --json the
decoded filter document is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := query.Build(query.Threshold)

			if asJSON {
				data, err := filter.JSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			encoded, err := filter.Encode()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decoded filter")
	return cmd
}
