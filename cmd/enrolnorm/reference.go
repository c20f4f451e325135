package main

import (
	"github.com/spf13/cobra"
)

func newReferenceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reference",
		Short: "Print the effective reference data as YAML",
		Long: `Prints the geography lists, abbreviation rules and status labels in use,
after applying ENROL_REFERENCE_FILE. The output is itself a valid reference
file and is a convenient starting point for one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.ref.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
