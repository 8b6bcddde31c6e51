package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trechriron/agent-arcade-trentin/telemetry"
)

func MonitorCommand() *cobra.Command {
	var addr string
	var dir string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Serve training metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = filepath.Join("telemetry", gameName)
			}
			fmt.Printf("Serving metrics for %s on %s\n", dir, addr)
			return telemetry.NewServer(dir).Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	cmd.Flags().StringVar(&dir, "dir", "", "Telemetry directory (defaults to the game's)")
	return cmd
}
