package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/genfile"
	"github.com/matzehuels/bricklabels/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	client  clientOpts
	output  string // output base path; page numbers and .png are appended
	format  string // output format, currently only "png"
	refresh bool   // bypass caches and refetch catalog data
}

// generateCommand creates the generate command: render every label in a
// generator file and compose them onto printable pages.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <genfile>",
		Short: "Generate label pages from a generator file",
		Long: `Generate reads a JSON or TOML generator file, fetches the part images it
references, lays each label out, and writes the composed pages as PNG files.

Run "bricklabels genfile info" for the generator file format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(opts.format); err != nil {
				return err
			}
			return c.runGenerate(cmd, args[0], &opts)
		},
	}

	registerClientFlags(cmd, &opts.client)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: genfile name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "png", "output format: png")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch catalog data even when cached")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, path string, opts *generateOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	gen, err := genfile.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debugf("Loaded %s: %d labels", path, len(gen.Labels))

	runner, err := c.newRunner(cmd, &opts.client)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	pages, err := runner.BuildPages(ctx, gen, opts.refresh)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d labels", len(gen.Labels)))

	base := outputBase(opts.output, path)
	paths, err := pipeline.Export(pages, base)
	if err != nil {
		return err
	}

	printSuccess("Generated %d page(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(gen.Labels), len(pages), !opts.refresh)
	printNextStep("Preview in a browser", "bricklabels serve "+path)
	return nil
}

// outputBase derives the base output path from the --output flag and the
// generator file path. A trailing .png is stripped so "out.png" and "out"
// produce the same files.
func outputBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return strings.TrimSuffix(output, ".png")
}

// validateOutputFormat checks the --format flag. Only PNG output is
// supported; the flag exists so the format is explicit in scripts.
func validateOutputFormat(format string) error {
	if format != "png" {
		return fmt.Errorf("invalid format: %s (only 'png' is supported)", format)
	}
	return nil
}
