package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/casual-mw/casual/config"
	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/queue"
)

// QueueCmd performs queue maintenance directly against a queue group's
// durable store.
// Unlike the other manager surfaces, queue maintenance operates on the
// store file itself rather than a running manager's admin RPC, since
// the operations (list/clear/restore dead letters) are safe to run
// against an idle store.
var QueueCmd = &cobra.Command{
	Use:   "queue <name>",
	Short: "Durable queue maintenance",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueue,
}

var (
	queueListFlag    bool
	queueClearFlag   bool
	queueRestoreFlag bool
)

func init() {
	QueueCmd.Flags().BoolVar(&queueListFlag, "list", false, "list every message in the queue")
	QueueCmd.Flags().BoolVar(&queueClearFlag, "clear", false, "permanently remove every message in the queue")
	QueueCmd.Flags().BoolVar(&queueRestoreFlag, "restore", false, "return dead-lettered messages to available")
}

func runQueue(cmd *cobra.Command, args []string) error {
	jsonOut := jsonRequested(cmd)
	name := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return printError(jsonOut, err)
	}

	storePath, qcfg, err := findQueueStore(cfg, name)
	if err != nil {
		return printError(jsonOut, err)
	}

	store, err := queue.Open(storePath)
	if err != nil {
		return printError(jsonOut, err)
	}
	defer store.Close()

	switch {
	case queueClearFlag:
		n, err := store.Clear(name)
		if err != nil {
			return printError(jsonOut, err)
		}
		return renderDocument(jsonOut, map[string]int64{"removed": n}, func() {
			pterm.Success.Printfln("cleared %d message(s) from %s", n, name)
		})

	case queueRestoreFlag:
		n, err := store.Restore(name)
		if err != nil {
			return printError(jsonOut, err)
		}
		return renderDocument(jsonOut, map[string]int64{"restored": n}, func() {
			pterm.Success.Printfln("restored %d dead-lettered message(s) in %s", n, name)
		})

	default: // --list is the default view
		_ = queueListFlag
		_ = qcfg
		messages, err := store.List(name)
		if err != nil {
			return printError(jsonOut, err)
		}
		return renderDocument(jsonOut, messages, func() {
			pterm.DefaultSection.Println("Queue: " + name)
			rows := [][]string{{"ID", "State", "Correlation", "Redeliveries", "TRID"}}
			for _, m := range messages {
				rows = append(rows, []string{itoa(int(m.ID)), string(m.State), m.Correlation, itoa(m.RedeliveryCount), m.TRID})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		})
	}
}

func findQueueStore(cfg *config.Config, name string) (string, *config.QueueConfig, error) {
	for i := range cfg.Queue {
		if cfg.Queue[i].Name == name {
			return cfg.Queue[i].StorePath, &cfg.Queue[i], nil
		}
	}
	return "", nil, errors.Newf("queue: no configured queue named %q", name)
}
