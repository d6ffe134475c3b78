// Package main provides the hw2go command line tool.
//
// hw2go converts Hauptwerk organ definitions into GrandOrgue organ
// definition files:
//   - convert: load, link and synthesize a definition, write the ODF
//   - check: report inconsistencies of an existing ODF
//   - dictionary: print the effective lookup table
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const appName = "hw2go"

// Version is set at link time.
var Version = "0.1.0-dev"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	logLevel  string
	logFormat string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert Hauptwerk organ definitions to GrandOrgue",
		Long: `hw2go reads a Hauptwerk organ definition (optionally zstd compressed),
rebuilds its object graph and writes an equivalent GrandOrgue organ
definition file next to the installation packages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(convertCmd(&g), checkCmd(&g), dictionaryCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
