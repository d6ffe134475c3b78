package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hw2go/internal/convert"
	"hw2go/internal/diagnostic"
	"hw2go/internal/media"
	"hw2go/internal/report"
)

type convertFlags struct {
	output      string
	configPath  string
	dictionary  string
	noFileCheck bool
	encoding    string
	show        string
	codes       bool
}

func convertCmd(g *globalFlags) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert <source>",
		Short: "Convert a Hauptwerk organ definition",
		Long: `Convert loads the source definition, links its records, synthesizes the
GrandOrgue objects and writes the ODF. Without -o the ODF is written to the
installation root, the parent of the folder holding the source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, &f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output ODF path")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&f.dictionary, "dictionary", "", "Lookup table sidecar (YAML)")
	cmd.Flags().BoolVar(&f.noFileCheck, "no-file-check", false, "Do not verify referenced media files")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Output encoding (utf-8-bom, iso-8859-1)")
	cmd.Flags().StringVar(&f.show, "show", "warning", "Lowest severity of listed log entries")
	cmd.Flags().BoolVar(&f.codes, "codes", false, "Print the per-code tally")

	return cmd
}

func runConvert(cmd *cobra.Command, g *globalFlags, f *convertFlags, sourcePath string) error {
	show, err := parseSeverity(f.show)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logger := newLogger(g.logLevel, g.logFormat, cmd.ErrOrStderr())

	res, err := convert.Run(cfg, sourcePath, convert.Options{
		Logger: logger,
		Progress: func(msg string) {
			logger.Info(msg)
		},
	})
	if res != nil && res.Log != nil {
		printReport(cmd, res.Log, show, f.codes)
	}

	if err != nil {
		return err
	}

	if res.Log.HasErrors() {
		return errors.New("conversion failed, see the log above")
	}

	out := f.output
	if out == "" {
		out = defaultOutput(sourcePath)
	}

	digest, err := convert.WriteResult(res, out, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d sections, blake3 %s)\n", out, res.Targets.Len(), digest)

	return nil
}

// loadConfig reads the config file, if any, and applies the flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command, f *convertFlags) (convert.Config, error) {
	cfg := convert.DefaultConfig()

	if f.configPath != "" {
		var err error

		cfg, err = convert.LoadConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()

	if flags.Changed("dictionary") {
		cfg.Dictionary = f.dictionary
	}

	if flags.Changed("no-file-check") {
		cfg.CheckFiles = !f.noFileCheck
	}

	if flags.Changed("encoding") {
		cfg.Encoding = strings.ToLower(f.encoding)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// defaultOutput places the ODF at the installation root, named after the
// source file without its extensions.
func defaultOutput(sourcePath string) string {
	base := filepath.Base(sourcePath)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}

	return filepath.Join(media.RootFor(sourcePath), base+".organ")
}

func printReport(cmd *cobra.Command, log *diagnostic.Log, show diagnostic.Severity, codes bool) {
	r := report.Generate(log, show)

	fmt.Fprint(cmd.ErrOrStderr(), report.Format(r, report.Options{Theme: report.DefaultTheme, Codes: codes}))
}
