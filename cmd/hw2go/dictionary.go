package main

import (
	"github.com/spf13/cobra"

	"hw2go/internal/dictionary"
)

func dictionaryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Print the effective lookup table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				dict *dictionary.Dictionary
				err  error
			)

			if path == "" {
				dict, err = dictionary.Default()
			} else {
				dict, err = dictionary.LoadFile(path)
			}

			if err != nil {
				return err
			}

			data, err := dict.Marshal()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&path, "dictionary", "", "Lookup table sidecar (YAML)")

	return cmd
}
