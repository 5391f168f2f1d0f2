// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parmahealth/parma/cmd/config"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector/compact"
	"github.com/parmahealth/parma/pkg/pipeline"
)

var errNoInput = errors.New("an input is required to encode")

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Encodes the input data into the compact format, one batch per line",
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindInputFlags(cmd) },
		RunE:    withSignalWatcher(encode),
		Example: `
	parma encode --input patients.csv
	parma encode --input patients.jsonl --input-format jsonl --output patients.toon
	`,
	}

	cmd.Flags().String("input", "", "Input file path, or the postgres URL with --input-format postgres")
	cmd.Flags().String("input-format", csvFormat, "Input format. One of csv, jsonl, postgres")
	cmd.Flags().String("table", "", "Postgres table to read, optionally schema qualified. Only for the postgres input format")
	cmd.Flags().Int("batch-size", 0, "Number of rows per batch. Defaults to 1000")
	cmd.Flags().String("output", "", "Output file for the compact encoding. Defaults to stdout")
	return cmd
}

func encode(ctx context.Context, cmd *cobra.Command) error {
	logger := newLogger()

	pipelineConfig, err := config.ParsePipelineConfig()
	if err != nil {
		return fmt.Errorf("parsing pipeline config: %w", err)
	}

	source, err := pipeline.BuildSource(ctx, logger, &pipelineConfig.Source)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingSource) {
			return errNoInput
		}
		return err
	}

	var sink batch.Sink
	if output := cmd.Flags().Lookup("output").Value.String(); output != "" {
		sink = compact.NewFileWriter(output, compact.WithLogger(logger))
	} else {
		sink = compact.NewWriter(os.Stdout, compact.WithLogger(logger))
	}

	_, err = pipeline.Encode(ctx, logger, source, sink)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
