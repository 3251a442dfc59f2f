package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardlink/cardscan/internal/config"
	"github.com/cardlink/cardscan/internal/extract"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cardscan",
	Short: "Business card contact extraction",
	Long:  "Turns OCR text from scanned business cards into structured, confidence-scored contacts, optionally reconciled against an entity-recognition service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// extractOptions builds pipeline options from config, loading the vocabulary
// override when one is configured.
func extractOptions() (extract.Options, error) {
	opts := extract.Options{
		DefaultCountry:     cfg.Extract.DefaultCountry,
		DefaultCountryCode: cfg.Extract.DefaultCountryCode,
		MaxPhoneLen:        cfg.Extract.MaxPhoneLen,
	}
	if cfg.Extract.VocabPath != "" {
		v, err := extract.LoadVocab(cfg.Extract.VocabPath)
		if err != nil {
			return opts, err
		}
		opts.Vocab = v
	}
	return opts, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
