// Package cmd - dfm command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopquote/core/catalog"
	"shopquote/core/dfm"
	"shopquote/core/types"
)

var dfmRequestPath string

// dfmRequest mirrors the analyze inputs in file form
type dfmRequest struct {
	Process        types.ProcessKind `json:"process"`
	Geometry       *types.Geometry   `json:"geometry"`
	MaterialID     string            `json:"material_id,omitempty"`
	ToleranceID    string            `json:"tolerance_id,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Purpose        string            `json:"purpose,omitempty"`
}

var dfmCmd = &cobra.Command{
	Use:   "dfm",
	Short: "Analyze part geometry for manufacturability",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(dfmRequestPath)
		if err != nil {
			return fmt.Errorf("read request file: %w", err)
		}
		var req dfmRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("decode request file: %w", err)
		}

		ctx := &dfm.Context{
			Process:        req.Process,
			Geometry:       req.Geometry,
			Certifications: req.Certifications,
			Purpose:        req.Purpose,
		}

		// Reference data is optional for DFM; resolve what the catalog has
		if req.MaterialID != "" || req.ToleranceID != "" {
			cat, err := catalog.LoadDir(resolveCatalogDir())
			if err != nil {
				return err
			}
			if req.MaterialID != "" {
				ctx.Material, _ = cat.Material(req.MaterialID)
			}
			if req.ToleranceID != "" {
				if tol, ok := cat.Tolerance(req.ToleranceID); ok {
					ctx.ToleranceMM = &tol.ValueMM
				}
			}
		}

		return printJSON(dfm.Analyze(ctx))
	},
}

func init() {
	dfmCmd.Flags().StringVar(&dfmRequestPath, "request", "", "JSON DFM request file (required)")
	_ = dfmCmd.MarkFlagRequired("request")
}
