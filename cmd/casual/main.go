package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/casual-mw/casual/cmd/casual/commands"
	"github.com/casual-mw/casual/logger"
)

var rootCmd = &cobra.Command{
	Use:   "casual",
	Short: "casual - XATMI-compatible distributed transaction processing fabric",
	Long: `casual is the administrative driver for a casual domain's managers:
Domain Manager, Service Manager, Transaction Manager, Gateway and Queue
Group.

Examples:
  casual domain --state                       # process supervision snapshot
  casual domain --scale-instances echo 3      # scale a service's instances
  casual service --state                      # service registry snapshot
  casual transaction --state                  # in-flight transaction snapshot
  casual queue --list orders                  # list queued messages
  casual gateway --state                      # connection registry
  casual call --service echo                  # synchronous service call`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(false)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "emit a structured JSON document instead of human-readable text")
	rootCmd.PersistentFlags().String("config", "", "path to casual.toml (defaults to the standard search path)")

	rootCmd.AddCommand(commands.DomainCmd)
	rootCmd.AddCommand(commands.ServiceCmd)
	rootCmd.AddCommand(commands.TransactionCmd)
	rootCmd.AddCommand(commands.QueueCmd)
	rootCmd.AddCommand(commands.GatewayCmd)
	rootCmd.AddCommand(commands.CallCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
