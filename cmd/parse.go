package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cardlink/cardscan/internal/extract"
	"github.com/cardlink/cardscan/internal/model"
	"github.com/cardlink/cardscan/internal/ner"
)

var (
	parseUseEntities bool
	parseConcurrency int
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse OCR text into a structured contact",
	Long:  "Reads raw OCR text (stdin when no files are given) and prints the extracted contact as JSON, one object per input.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := extractOptions()
		if err != nil {
			return err
		}

		var rec extract.Recognizer
		if parseUseEntities {
			rec, err = ner.NewRecognizer(cfg.NER)
			if err != nil {
				return err
			}
		}

		if len(args) == 0 {
			text, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "parse: read stdin")
			}
			draft := extract.ExtractWithEntities(cmd.Context(), string(text), rec, opts)
			return printDraft(draft)
		}

		return parseFiles(cmd.Context(), args, rec, opts)
	},
}

// parseFiles extracts each file concurrently but prints results in input
// order, so output stays deterministic.
func parseFiles(ctx context.Context, paths []string, rec extract.Recognizer, opts extract.Options) error {
	drafts := make([]model.ContactDraft, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)

	var mu sync.Mutex
	for i, path := range paths {
		g.Go(func() error {
			text, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "parse: read %s", path)
			}
			draft := extract.ExtractWithEntities(gCtx, string(text), rec, opts)
			mu.Lock()
			drafts[i] = draft
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, draft := range drafts {
		zap.L().Debug("parse: file done", zap.String("file", paths[i]))
		if err := printDraft(draft); err != nil {
			return err
		}
	}
	return nil
}

func printDraft(draft model.ContactDraft) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(draft), "parse: encode draft")
}

func init() {
	parseCmd.Flags().BoolVar(&parseUseEntities, "entities", false, "merge entities from the configured NER provider")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", 4, "max files processed in parallel")
	rootCmd.AddCommand(parseCmd)
}
