package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardlink/cardscan/internal/extract"
	"github.com/cardlink/cardscan/internal/ner"
	"github.com/cardlink/cardscan/internal/ocr"
)

var scanUseEntities bool

var scanCmd = &cobra.Command{
	Use:   "scan <images...>",
	Short: "OCR card images and extract contacts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := extractOptions()
		if err != nil {
			return err
		}

		engine, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}

		var rec extract.Recognizer
		if scanUseEntities {
			rec, err = ner.NewRecognizer(cfg.NER)
			if err != nil {
				return err
			}
		}

		for _, path := range args {
			text, err := engine.ExtractText(cmd.Context(), path)
			if err != nil {
				return err
			}
			zap.L().Debug("scan: transcribed image",
				zap.String("image", path),
				zap.Int("chars", len(text)),
			)
			draft := extract.ExtractWithEntities(cmd.Context(), text, rec, opts)
			if err := printDraft(draft); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanUseEntities, "entities", false, "merge entities from the configured NER provider")
	rootCmd.AddCommand(scanCmd)
}
