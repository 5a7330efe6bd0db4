// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopquote/core/catalog"
	"shopquote/core/pricing"
	"shopquote/core/types"
	"shopquote/internal/config"
)

var (
	quoteRequestPath string
	quoteTiers       []int
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a quote item against the machine catalog",
	Long: `Prices a quote item read from a JSON request file against the HCL
machine catalog. With --tiers, prices each quantity and applies
unit-price monotonicity smoothing across tiers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadDir(resolveCatalogDir())
		if err != nil {
			return err
		}

		data, err := os.ReadFile(quoteRequestPath)
		if err != nil {
			return fmt.Errorf("read request file: %w", err)
		}
		var item types.QuoteItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("decode request file: %w", err)
		}

		cfg := config.Get()
		engine := pricing.New(pricing.Config{
			DefaultRegion:      cfg.Catalog.DefaultRegion,
			StandardOffsetDays: cfg.Capacity.StandardOffsetDays,
			ExpediteOffsetDays: cfg.Capacity.ExpediteOffsetDays,
			DayMinutes:         cfg.Capacity.DefaultDayMinutes,
		})

		var out any
		if len(quoteTiers) > 0 {
			out, err = engine.PriceTiers(cmd.Context(), &item, cat, quoteTiers)
		} else {
			out, err = engine.Price(cmd.Context(), &item, cat)
		}
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteRequestPath, "request", "", "JSON quote item file (required)")
	quoteCmd.Flags().IntSliceVar(&quoteTiers, "tiers", nil, "quantity tiers to price, e.g. 1,10,100")
	_ = quoteCmd.MarkFlagRequired("request")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
