package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casual-mw/casual/version"
)

// VersionCmd prints build/version information for the casual binary.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show casual version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		return renderDocument(jsonRequested(cmd), info, func() {
			fmt.Println(info.String())
			fmt.Printf("Platform: %s\n", info.Platform)
			fmt.Printf("Go: %s\n", info.GoVersion)
		})
	},
}
