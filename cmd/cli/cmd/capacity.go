// Package cmd - capacity commands
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shopquote/core/capacity"
	"shopquote/core/types"
	"shopquote/db"
	"shopquote/internal/config"
)

var (
	capMachineID string
	capMinutes   float64
	capLead      string
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Search and reserve machine capacity",
}

var capacityFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find the earliest day with enough uncommitted capacity",
	RunE: func(cmd *cobra.Command, args []string) error {
		scheduler, cleanup, err := openScheduler()
		if err != nil {
			return err
		}
		defer cleanup()

		slot, err := scheduler.FindSlot(cmd.Context(), capMachineID, capMinutes, types.LeadTimeClass(capLead))
		if err != nil {
			return err
		}
		return printJSON(slot)
	},
}

var capacityReserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Reserve capacity and print the promised ship date",
	RunE: func(cmd *cobra.Command, args []string) error {
		scheduler, cleanup, err := openScheduler()
		if err != nil {
			return err
		}
		defer cleanup()

		shipDate, err := scheduler.Reserve(cmd.Context(), capMachineID, capMinutes, types.LeadTimeClass(capLead))
		if err != nil {
			return err
		}
		fmt.Println(shipDate.Format("2006-01-02"))
		return nil
	},
}

func openScheduler() (*capacity.Scheduler, func(), error) {
	cfg := config.Get()
	if err := os.MkdirAll(filepath.Dir(cfg.Capacity.DatabasePath), 0755); err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(cfg.Capacity.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	scheduler := capacity.New(db.NewCapacityStore(conn), capacity.Config{
		HorizonDays:        cfg.Capacity.HorizonDays,
		StandardOffsetDays: cfg.Capacity.StandardOffsetDays,
		ExpediteOffsetDays: cfg.Capacity.ExpediteOffsetDays,
		DefaultDayMinutes:  cfg.Capacity.DefaultDayMinutes,
	})
	return scheduler, func() { conn.Close() }, nil
}

func init() {
	for _, c := range []*cobra.Command{capacityFindCmd, capacityReserveCmd} {
		c.Flags().StringVar(&capMachineID, "machine", "", "machine id (required)")
		c.Flags().Float64Var(&capMinutes, "minutes", 0, "minutes required (required)")
		c.Flags().StringVar(&capLead, "lead", "standard", "lead time class (standard|expedite)")
		_ = c.MarkFlagRequired("machine")
		_ = c.MarkFlagRequired("minutes")
	}
	capacityCmd.AddCommand(capacityFindCmd)
	capacityCmd.AddCommand(capacityReserveCmd)
}
