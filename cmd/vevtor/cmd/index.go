package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/service"
	"github.com/spf13/cobra"
)

func newIndexCmd(load loader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index JSON lines from stdin or a file",
		Long: `Index reads one JSON document per line:

  {"key": "notes/a.md", "collection": "notes", "text": "...", "metadata": {...}}

and writes them through a batch worker. Malformed lines are reported and
skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return withApp(cmd.Context(), load, func(a *app) error {
				return runIndex(cmd.Context(), cmd, a, in)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read documents from this file instead of stdin")
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, a *app, in io.Reader) error {
	// Batches keep being written after an interrupt so Close can flush.
	w, err := service.SpawnIndexWorker[indexable.Tagged[Document]](context.WithoutCancel(ctx), a.svc, a.cfg.Worker)
	if err != nil {
		return err
	}
	var failed int
	w.WithDispatchHook(func(batch []indexable.Tagged[Document], err error) {
		if err != nil {
			failed += len(batch)
		}
	})
	producer := w.Producer()
	decode := ingest.TaggedJSON[Document]()

	var (
		sent    int
		skipped int
		errs    []error
	)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		doc, err := decode(raw)
		if err != nil {
			skipped++
			fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", line, err)
			continue
		}
		if err := producer.Send(ctx, doc); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			break
		}
		sent++
	}
	errs = append(errs, scanner.Err())

	// Close flushes whatever is still buffered, even after an interrupt.
	errs = append(errs, w.Close(context.WithoutCancel(ctx)))

	// The hook runs on the dispatcher, which has exited once Close returned.
	stats := w.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d document(s) in %d batch(es), %d skipped, %d failed\n",
		sent-failed, stats.Batches, skipped, failed)

	if failed > 0 {
		errs = append(errs, fmt.Errorf("%d of %d document(s) were not written", failed, sent))
	}
	return errors.Join(errs...)
}
