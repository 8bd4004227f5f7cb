package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gatewayrpc "github.com/casual-mw/casual/gateway/rpc"
)

// GatewayCmd reports the Gateway's connection registry.
var GatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Inspect the Gateway connection registry",
	RunE:  runGateway,
}

func init() {
	GatewayCmd.Flags().Bool("state", true, "emit the connection registry")
}

func runGateway(cmd *cobra.Command, args []string) error {
	jsonOut := jsonRequested(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return printError(jsonOut, err)
	}

	cc, err := dialAdmin(cfg.Admin.GatewayAddr)
	if err != nil {
		return printError(jsonOut, err)
	}
	defer cc.Close()

	reply, err := gatewayrpc.NewAdminClient(cc).GetState(context.Background(), &gatewayrpc.StateRequest{})
	if err != nil {
		return printError(jsonOut, err)
	}

	return renderDocument(jsonOut, reply, func() {
		pterm.DefaultSection.Println("Gateway: " + reply.DomainID)
		rows := [][]string{{"Remote ID", "Role", "Version", "Closed"}}
		for _, c := range reply.Connections {
			rows = append(rows, []string{c.RemoteID, c.Role, c.Version, boolString(c.Closed)})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	})
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
