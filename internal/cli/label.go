package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/genfile"
	"github.com/matzehuels/bricklabels/pkg/imgproc"
	"github.com/matzehuels/bricklabels/pkg/label"
	"github.com/matzehuels/bricklabels/pkg/units"
)

// labelOpts holds the command-line flags for the label command.
type labelOpts struct {
	client  clientOpts
	output  string    // output PNG path
	text    string    // caption rendered after the part images
	width   float64   // label width in mm
	height  float64   // label height in mm
	margins []float64 // top, right, bottom, left in mm
	spacing float64   // gap between items in mm
	dotSize float64   // overflow indicator dot diameter in mm
	dpi     int
	refresh bool
	preview bool // write to a temp file and print its path
}

// labelCommand creates the label command: render a single label to a PNG.
func (c *CLI) labelCommand() *cobra.Command {
	opts := labelOpts{
		width:   genfile.DefaultLabelSize[0],
		height:  genfile.DefaultLabelSize[1],
		margins: append([]float64(nil), genfile.DefaultLabelMargins[:]...),
		spacing: genfile.DefaultSpacing,
		dotSize: genfile.DefaultDotSize,
		dpi:     genfile.DefaultDPI,
	}

	cmd := &cobra.Command{
		Use:   "label <part>...",
		Short: "Render a single label from part numbers",
		Long: `Label fetches the catalog image for each part number, packs as many as fit
onto one label, and writes the result as a PNG. Parts that don't fit are
replaced by a dot-dot-dot overflow indicator.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.text == "" {
				return errors.New(errors.ErrCodeNoItems, "provide at least one part number or --text")
			}
			return c.runLabel(cmd, args, &opts)
		},
	}

	registerClientFlags(cmd, &opts.client)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "label.png", "output PNG path")
	cmd.Flags().StringVar(&opts.text, "text", "", "caption rendered after the part images")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "label width in mm")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "label height in mm")
	cmd.Flags().Float64SliceVar(&opts.margins, "margins", opts.margins, "label margins in mm: top,right,bottom,left")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", opts.spacing, "gap between items in mm")
	cmd.Flags().Float64Var(&opts.dotSize, "dot-size", opts.dotSize, "overflow dot diameter in mm")
	cmd.Flags().IntVar(&opts.dpi, "dpi", opts.dpi, "output resolution")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch catalog data even when cached")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "write to a temporary file and print its path")

	return cmd
}

func (c *CLI) runLabel(cmd *cobra.Command, parts []string, opts *labelOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	if len(opts.margins) != 4 {
		return errors.New(errors.ErrCodeInvalidConfig, "--margins needs exactly four values (top,right,bottom,left)")
	}

	client, err := c.newClient(cmd, &opts.client)
	if err != nil {
		return err
	}

	lbl, err := label.New(opts.width, opts.height,
		label.WithDPI(opts.dpi),
		label.WithMargins(units.Margins{
			Top:    opts.margins[0],
			Right:  opts.margins[1],
			Bottom: opts.margins[2],
			Left:   opts.margins[3],
		}),
		label.WithSpacing(opts.spacing),
		label.WithDotSize(opts.dotSize),
	)
	if err != nil {
		return err
	}

	if len(parts) > 0 {
		spin := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %d part(s)...", len(parts)))
		spin.Start()
		for _, num := range parts {
			img, err := client.PartImage(ctx, num, opts.refresh)
			if err != nil {
				spin.StopWithError(fmt.Sprintf("Fetch %s failed", num))
				return err
			}
			if err := lbl.AddImage(imgproc.CropBorder(img)); err != nil {
				spin.Stop()
				return err
			}
		}
		spin.Stop()
	}

	if opts.text != "" {
		if err := lbl.AddText(opts.text); err != nil {
			return err
		}
	}

	if err := lbl.Layout(); err != nil {
		return err
	}

	if opts.preview {
		path, err := lbl.Preview()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	if err := lbl.Save(opts.output); err != nil {
		return err
	}

	printSuccess("Wrote %s", opts.output)
	printDetail("%gx%g mm at %d dpi · %s", opts.width, opts.height, opts.dpi, describeItems(parts, opts.text))
	return nil
}

// describeItems summarizes the label content for the detail line.
func describeItems(parts []string, text string) string {
	var segs []string
	if len(parts) > 0 {
		segs = append(segs, fmt.Sprintf("%d part(s)", len(parts)))
	}
	if text != "" {
		segs = append(segs, fmt.Sprintf("text %q", text))
	}
	return strings.Join(segs, ", ")
}
