// Package commands implements the casual CLI's subcommands: one file
// per manager surface (domain, service, transaction, queue, gateway,
// call), each dialing that manager's admin control-plane and rendering
// either a structured JSON document or pterm-formatted text.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/casual-mw/casual/config"
	"github.com/casual-mw/casual/errors"
)

// loadConfig resolves the domain configuration from --config if given,
// else the standard search path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// jsonRequested reports whether --json was passed anywhere up the
// command tree.
func jsonRequested(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// dialAdmin opens an insecure gRPC connection to an admin control-plane
// address (127.0.0.1:... by convention; this is local-operator tooling,
// not internet-facing).
func dialAdmin(addr string) (*grpc.ClientConn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cc, err := grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "dial admin control-plane at %s", addr)
	}
	return cc, nil
}

// renderDocument emits v as JSON when jsonOut is set, otherwise calls
// human to print the pterm-formatted view.
func renderDocument(jsonOut bool, v interface{}, human func()) error {
	if jsonOut {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "format JSON document")
		}
		fmt.Println(string(out))
		return nil
	}
	human()
	return nil
}

// printError renders a failure consistently across subcommands before
// the command returns non-zero.
func printError(jsonOut bool, err error) error {
	if jsonOut {
		out, _ := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
		fmt.Println(string(out))
	} else {
		pterm.Error.Println(err.Error())
	}
	return err
}
