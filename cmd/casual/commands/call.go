package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	servicerpc "github.com/casual-mw/casual/service/rpc"
)

// CallCmd resolves a synchronous service call from the CLI. It performs the same lookup
// resolution an in-process caller would get; delivering a request
// payload to the resolved instance is out of scope for this admin
// surface (see service/rpc.CallRequest's doc comment).
var CallCmd = &cobra.Command{
	Use:   "call",
	Short: "Resolve a synchronous service call",
	RunE:  runCall,
}

var callServiceFlag string

func init() {
	CallCmd.Flags().StringVar(&callServiceFlag, "service", "", "service name to call")
	_ = CallCmd.MarkFlagRequired("service")
}

func runCall(cmd *cobra.Command, args []string) error {
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

	reply, err := servicerpc.NewAdminClient(cc).Call(context.Background(), &servicerpc.CallRequest{Service: callServiceFlag})
	if err != nil {
		return printError(jsonOut, err)
	}

	return renderDocument(jsonOut, reply, func() {
		switch reply.Status {
		case "absent":
			pterm.Error.Printfln("%s: no such service", callServiceFlag)
		case "busy":
			pterm.Warning.Printfln("%s: all instances busy, call parked", callServiceFlag)
		case "idle":
			pterm.Success.Printfln("%s: resolved to instance %s", callServiceFlag, reply.Instance)
		}
	})
}
