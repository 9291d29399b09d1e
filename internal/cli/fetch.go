package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/rebrickable"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	client  clientOpts
	refresh bool
}

// fetchCommand creates the fetch command: warm the metadata and image
// caches for a list of parts so later generate runs work offline.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch <part>...",
		Short: "Fetch part data and images into the local cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, args, &opts)
		},
	}

	registerClientFlags(cmd, &opts.client)
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch even when cached")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, parts []string, opts *fetchOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	client, err := c.newClient(cmd, &opts.client)
	if err != nil {
		return err
	}

	var fetched []rebrickable.PartInfo
	for _, num := range parts {
		spin := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s...", num))
		spin.Start()

		info, err := client.Part(ctx, num, opts.refresh)
		if err != nil {
			spin.StopWithError(fmt.Sprintf("%s: %v", num, err))
			return err
		}
		if _, err := client.PartImage(ctx, num, opts.refresh); err != nil {
			if errors.Is(err, errors.ErrCodeNoImage) {
				spin.Stop()
				printWarning("%s has no catalog image", num)
				fetched = append(fetched, *info)
				continue
			}
			spin.StopWithError(fmt.Sprintf("%s: %v", num, err))
			return err
		}

		spin.StopWithSuccess(fmt.Sprintf("%s  %s", info.PartNum, StyleDim.Render(info.Name)))
		fetched = append(fetched, *info)
	}

	if err := c.updatePartsIndex(opts.client, fetched); err != nil {
		c.Logger.Debugf("Updating parts index failed: %v", err)
	}

	printNewline()
	printInfo("Cached %d part(s)", len(fetched))
	printNextStep("Browse them", "bricklabels parts")
	return nil
}
