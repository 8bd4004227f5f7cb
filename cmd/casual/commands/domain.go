package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	domainrpc "github.com/casual-mw/casual/domain/rpc"
)

// DomainCmd drives the Domain Manager's admin surface.
var DomainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Inspect or control the Domain Manager",
	RunE:  runDomain,
}

var (
	domainScaleFlag    []string
	domainShutdownFlag bool
)

func init() {
	DomainCmd.Flags().Bool("state", false, "print the domain process snapshot (the default action)")
	DomainCmd.Flags().StringSliceVar(&domainScaleFlag, "scale-instances", nil, "alias n (or alias,n): set target_instances for alias to n")
	DomainCmd.Flags().BoolVar(&domainShutdownFlag, "shutdown", false, "initiate graceful domain shutdown")
}

func runDomain(cmd *cobra.Command, args []string) error {
	jsonOut := jsonRequested(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return printError(jsonOut, err)
	}

	cc, err := dialAdmin(cfg.Admin.DomainAddr)
	if err != nil {
		return printError(jsonOut, err)
	}
	defer cc.Close()
	client := domainrpc.NewAdminClient(cc)
	ctx := context.Background()

	scale := domainScaleFlag
	if len(scale) == 1 && len(args) == 1 {
		scale = append(scale, args[0])
	}

	switch {
	case len(scale) == 2:
		alias := scale[0]
		target, convErr := parseInt(scale[1])
		if convErr != nil {
			return printError(jsonOut, convErr)
		}
		reply, err := client.Scale(ctx, &domainrpc.ScaleRequest{Alias: alias, Target: target})
		if err != nil {
			return printError(jsonOut, err)
		}
		return renderDocument(jsonOut, reply, func() {
			pterm.Success.Printfln("%s scaled by %d instance(s)", alias, reply.Delta)
		})

	case domainShutdownFlag:
		reply, err := client.Shutdown(ctx, &domainrpc.ShutdownRequest{})
		if err != nil {
			return printError(jsonOut, err)
		}
		return renderDocument(jsonOut, reply, func() {
			pterm.Success.Println("graceful shutdown initiated")
		})

	default:
		reply, err := client.GetState(ctx, &domainrpc.StateRequest{})
		if err != nil {
			return printError(jsonOut, err)
		}
		return renderDocument(jsonOut, reply, func() {
			pterm.DefaultSection.Println("Domain Manager")
			pterm.Printfln("runlevel: %s", reply.Runlevel)
			rows := [][]string{{"PID", "Alias", "Identity", "IPC", "CPU%", "RSS"}}
			for _, h := range reply.Handles {
				rows = append(rows, []string{
					itoa(h.PID), h.Alias, h.Identity, h.IPC,
					fmt.Sprintf("%.1f", h.CPUPercent),
					fmt.Sprintf("%d", h.MemoryRSSBytes),
				})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		})
	}
}
