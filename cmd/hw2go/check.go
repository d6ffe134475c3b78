package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hw2go/internal/diagnostic"
	"hw2go/internal/odf"
	"hw2go/internal/target"
)

func checkCmd(g *globalFlags) *cobra.Command {
	var (
		show  string
		codes bool
	)

	cmd := &cobra.Command{
		Use:   "check <file.organ>",
		Short: "Check the object graph of a GrandOrgue ODF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseSeverity(show)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			log := diagnostic.NewLog(newLogger(g.logLevel, g.logFormat, cmd.ErrOrStderr()))

			s, err := target.Read(f, log)
			if err != nil {
				return err
			}

			graph := odf.Check(s, log)

			printReport(cmd, log, level, codes)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sections\n", args[0], graph.Len())

			if log.HasErrors() {
				return errors.New("the definition is inconsistent")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&show, "show", "warning", "Lowest severity of listed log entries")
	cmd.Flags().BoolVar(&codes, "codes", false, "Print the per-code tally")

	return cmd
}
