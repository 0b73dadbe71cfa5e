package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autobrr/otherfile/pkg/runtime"
)

func VersionCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Long:  `Print version info`,
		Example: `  otherfile version
  otherfile version --help`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "otherfile version: %s commit: %s built at: %s\n",
			runtime.Version, runtime.GitCommit, runtime.Timestamp)
		return nil
	}

	return command
}
