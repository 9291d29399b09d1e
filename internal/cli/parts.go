package cli

import (
	"errors"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/httputil"
	"github.com/matzehuels/bricklabels/pkg/rebrickable"
)

// partsIndexKey is the metadata-cache key under which the CLI keeps the
// list of parts it has fetched, so the picker can enumerate them without
// hitting the API.
const partsIndexKey = "parts_index"

// partsCommand creates the parts command: an interactive picker over the
// parts fetched so far. The selected part number is printed to stdout so
// it can be pasted into a generator file.
func (c *CLI) partsCommand() *cobra.Command {
	var opts clientOpts

	cmd := &cobra.Command{
		Use:   "parts",
		Short: "Pick a cached part interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParts(&opts)
		},
	}

	registerClientFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runParts(opts *clientOpts) error {
	parts, err := c.loadPartsIndex(*opts)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		printInfo("No cached parts yet")
		printNextStep("Fetch some first", "bricklabels fetch 3001 3005")
		return nil
	}

	model := newPartListModel(parts)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	m, ok := final.(partListModel)
	if !ok || m.selected == nil {
		return nil
	}
	fmt.Println(m.selected.PartNum)
	return nil
}

// =============================================================================
// Parts Index
// =============================================================================

// loadPartsIndex reads the cached parts list, ignoring a missing index.
func (c *CLI) loadPartsIndex(opts clientOpts) ([]rebrickable.PartInfo, error) {
	meta, err := newMetadataCache(&opts)
	if err != nil || meta == nil {
		return nil, err
	}

	var parts []rebrickable.PartInfo
	ok, err := meta.Get(partsIndexKey, &parts)
	if errors.Is(err, httputil.ErrExpired) {
		return nil, nil
	}
	if err != nil || !ok {
		return nil, err
	}
	return parts, nil
}

// updatePartsIndex merges newly fetched parts into the cached index,
// deduplicating by part number.
func (c *CLI) updatePartsIndex(opts clientOpts, fetched []rebrickable.PartInfo) error {
	if len(fetched) == 0 {
		return nil
	}

	meta, err := newMetadataCache(&opts)
	if err != nil || meta == nil {
		return err
	}

	var parts []rebrickable.PartInfo
	if _, err := meta.Get(partsIndexKey, &parts); err != nil {
		parts = nil
	}

	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		seen[p.PartNum] = true
	}
	for _, p := range fetched {
		if !seen[p.PartNum] {
			parts = append(parts, p)
			seen[p.PartNum] = true
		}
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNum < parts[j].PartNum })
	return meta.Set(partsIndexKey, parts)
}
