package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	servicerpc "github.com/casual-mw/casual/service/rpc"
)

// ServiceCmd reports the Service Manager's registry snapshot.
var ServiceCmd = &cobra.Command{
	Use:   "service",
	Short: "Inspect the Service Manager registry",
	RunE:  runService,
}

func init() {
	ServiceCmd.Flags().Bool("state", true, "emit a service registry snapshot")
}

func runService(cmd *cobra.Command, args []string) error {
	jsonOut := jsonRequested(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return printError(jsonOut, err)
	}

	cc, err := dialAdmin(cfg.Admin.ServiceAddr)
	if err != nil {
		return printError(jsonOut, err)
	}
	defer cc.Close()

	reply, err := servicerpc.NewAdminClient(cc).GetState(context.Background(), &servicerpc.StateRequest{})
	if err != nil {
		return printError(jsonOut, err)
	}

	return renderDocument(jsonOut, reply, func() {
		pterm.DefaultSection.Println("Service Manager")
		rows := [][]string{{"Service", "Sequential", "Busy", "Concurrent", "Calls", "Errors"}}
		for _, s := range reply.Services {
			rows = append(rows, []string{
				s.Name, itoa(s.Sequential), itoa(s.Busy), itoa(s.Concurrent),
				itoa(int(s.Count)), itoa(int(s.ErrorCount)),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	})
}
