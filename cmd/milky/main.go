// Milky - client library and gateway CLI for the Milky IM protocol
// License: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/milky/cmd/milky/internal"
	"github.com/tinyland-inc/milky/cmd/milky/internal/gateway"
	"github.com/tinyland-inc/milky/cmd/milky/internal/onboard"
	"github.com/tinyland-inc/milky/cmd/milky/internal/version"
)

func NewMilkyCommand() *cobra.Command {
	short := fmt.Sprintf("%s milky - Milky protocol client v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "milky",
		Short:   short,
		Example: "milky gateway",
	}

	cmd.AddCommand(
		onboard.NewOnboardCommand(),
		gateway.NewGatewayCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewMilkyCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
