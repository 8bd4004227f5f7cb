package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	transactionrpc "github.com/casual-mw/casual/transaction/rpc"
)

// TransactionCmd reports the Transaction Manager's in-flight snapshot.
var TransactionCmd = &cobra.Command{
	Use:   "transaction",
	Short: "Inspect the Transaction Manager",
	RunE:  runTransaction,
}

func init() {
	TransactionCmd.Flags().Bool("state", true, "emit a transaction manager state snapshot")
}

func runTransaction(cmd *cobra.Command, args []string) error {
	jsonOut := jsonRequested(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return printError(jsonOut, err)
	}

	cc, err := dialAdmin(cfg.Admin.TransactionAddr)
	if err != nil {
		return printError(jsonOut, err)
	}
	defer cc.Close()

	reply, err := transactionrpc.NewAdminClient(cc).GetState(context.Background(), &transactionrpc.StateRequest{})
	if err != nil {
		return printError(jsonOut, err)
	}

	return renderDocument(jsonOut, reply, func() {
		pterm.DefaultSection.Println("Transaction Manager")
		rows := [][]string{{"TRID", "State", "Deadline", "Resources"}}
		for _, t := range reply.Transactions {
			rows = append(rows, []string{t.TRID, t.State, t.Deadline, formatResources(t.Resources)})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	})
}

func formatResources(resources map[string]string) string {
	out := ""
	for name, code := range resources {
		if out != "" {
			out += ", "
		}
		out += name + "=" + code
	}
	return out
}
