package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/genfile"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	client  clientOpts
	addr    string
	refresh bool
}

// serveCommand creates the serve command: render the generator file once
// and serve the resulting pages over HTTP for browser preview.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve <genfile>",
		Short: "Serve rendered label pages over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args[0], &opts)
		},
	}

	registerClientFlags(cmd, &opts.client)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch catalog data even when cached")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, path string, opts *serveOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	gen, err := genfile.Load(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cmd, &opts.client)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	pages, err := runner.BuildPages(ctx, gen, opts.refresh)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d page(s)", len(pages)))

	encoded, err := encodePages(pages)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           pageRouter(encoded),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printSuccess("Serving %d page(s)", len(encoded))
	printDetail("Listening on %s", opts.addr)
	printNextStep("Open", "http://localhost"+opts.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// encodePages PNG-encodes every page up front so requests are served from
// memory.
func encodePages(pages []image.Image) ([][]byte, error) {
	encoded := make([][]byte, len(pages))
	for i, p := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p); err != nil {
			return nil, err
		}
		encoded[i] = buf.Bytes()
	}
	return encoded, nil
}

// pageRouter builds the HTTP routes: an HTML index at / and one PNG per
// page at /pages/{n}.png (1-based).
func pageRouter(pages [][]byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<!doctype html><title>bricklabels</title><body style=\"background:#555;text-align:center\">")
		for i := range pages {
			fmt.Fprintf(w, "<p><img src=\"/pages/%d.png\" style=\"max-width:95%%;box-shadow:0 0 8px #000\"></p>", i+1)
		}
		fmt.Fprint(w, "</body>")
	})

	r.Get("/pages/{n}.png", func(w http.ResponseWriter, req *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(req, "n"))
		if err != nil || n < 1 || n > len(pages) {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pages[n-1])
	})

	return r
}
