package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/genfile"
)

// genfileCommand creates the genfile command group.
func (c *CLI) genfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genfile",
		Short: "Inspect and scaffold generator files",
	}

	cmd.AddCommand(c.genfileInfoCommand())
	cmd.AddCommand(c.genfileInitCommand())

	return cmd
}

// genfileInfoCommand creates the "genfile info" subcommand.
func (c *CLI) genfileInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the generator file format",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(genfile.FormatInfo)
			return nil
		},
	}
}

// genfileInitCommand creates the "genfile init" subcommand, which writes a
// sample generator file to start from.
func (c *CLI) genfileInitCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample generator file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(output); err == nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists", output)
			}
			if err := os.WriteFile(output, []byte(genfile.Sample), 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s", output)
			printNextStep("Generate labels from it", "bricklabels generate "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "labels.json", "where to write the sample file")
	return cmd
}
