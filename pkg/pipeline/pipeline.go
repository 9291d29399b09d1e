// Package pipeline provides the core generation pipeline for bricklabels.
//
// This package implements the complete fetch → label → paginate flow that
// is shared by the CLI and the preview server. By centralizing this logic,
// both entry points behave identically and the stages stay composable.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Resolve part images from the catalog (network or cache)
//  2. Label: Lay each label out on its raster surface
//  3. Paginate: Flow finished labels onto printable pages
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(client, logger)
//	pages, err := runner.BuildPages(ctx, gen, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := pipeline.Export(pages, "labels")
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/genfile"
	"github.com/matzehuels/bricklabels/pkg/imgproc"
	"github.com/matzehuels/bricklabels/pkg/label"
	"github.com/matzehuels/bricklabels/pkg/page"
	"github.com/matzehuels/bricklabels/pkg/rebrickable"
)

// Runner executes the generation pipeline.
type Runner struct {
	client *rebrickable.Client
	log    *charmlog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to the default
// charm logger.
func NewRunner(client *rebrickable.Client, logger *charmlog.Logger) *Runner {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Runner{client: client, log: logger}
}

// BuildLabel fetches the images for one label spec and lays them out.
// Geometry comes from the generator file; refresh bypasses the caches.
func (r *Runner) BuildLabel(ctx context.Context, spec genfile.LabelSpec, gen *genfile.File, refresh bool) (image.Image, error) {
	start := time.Now()

	l, err := label.New(gen.LabelSize[0], gen.LabelSize[1],
		label.WithDPI(gen.DPI),
		label.WithMargins(gen.LabelMarginsMM()),
		label.WithSpacing(gen.Spacing),
		label.WithDotSize(gen.DotSize),
	)
	if err != nil {
		return nil, err
	}

	for _, num := range spec.Parts {
		img, err := r.client.PartImage(ctx, num, refresh)
		if err != nil {
			return nil, err
		}
		if err := l.AddImage(imgproc.CropBorder(img)); err != nil {
			return nil, err
		}
		r.log.Debug("added part image", "part", num)
	}
	if spec.Text != "" {
		if err := l.AddText(spec.Text); err != nil {
			return nil, err
		}
	}

	if err := l.Layout(); err != nil {
		return nil, err
	}
	out, err := l.Image()
	if err != nil {
		return nil, err
	}

	r.log.Debug("label laid out",
		"parts", len(spec.Parts),
		"text", spec.Text != "",
		"elapsed", time.Since(start).Round(time.Millisecond))
	return out, nil
}

// BuildPages runs the full pipeline for a generator file and returns the
// composited pages in order.
func (r *Runner) BuildPages(ctx context.Context, gen *genfile.File, refresh bool) ([]image.Image, error) {
	if err := gen.Validate(); err != nil {
		return nil, err
	}

	sheet, err := page.NewSheet(gen.PageSize[0], gen.PageSize[1],
		page.WithDPI(gen.DPI),
		page.WithMargins(gen.PageMarginsMM()),
	)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	for i, spec := range gen.Labels {
		img, err := r.BuildLabel(ctx, spec, gen, refresh)
		if err != nil {
			return nil, wrapLabelErr(err, i)
		}
		if err := sheet.Add(img); err != nil {
			return nil, err
		}
	}

	pages := sheet.Pages()
	r.log.Info("labels generated",
		"labels", len(gen.Labels),
		"pages", len(pages),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return pages, nil
}

// wrapLabelErr annotates a stage error with the 1-based label index,
// keeping the original error code when there is one.
func wrapLabelErr(err error, i int) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "label %d", i+1)
}

// Export writes pages as numbered PNG files: base-1.png, base-2.png, ...
// A single page is written as base.png. Returns the written paths.
func Export(pages []image.Image, base string) ([]string, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeNoItems, "no pages to export")
	}

	var paths []string
	for i, p := range pages {
		path := base + ".png"
		if len(pages) > 1 {
			path = fmt.Sprintf("%s-%d.png", base, i+1)
		}
		if err := imaging.Save(p, path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
