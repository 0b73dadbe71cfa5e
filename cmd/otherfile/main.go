package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autobrr/otherfile/cmd"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "otherfile",
		Short: "Jump between related files",
		Long: `A CLI application that finds the files related to the one you are editing:
headers and sources, code and tests.
`,
		SilenceErrors: true,
	}

	// Parse persistent flags
	rootCmd.PersistentFlags().StringVar(&cmd.FlagConfigFolder, "config-dir", cmd.FlagConfigFolder, "Config folder")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagConfigFile, "config", "c", cmd.FlagConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagLogFile, "log", "l", cmd.FlagLogFile, "Log file")
	rootCmd.PersistentFlags().CountVarP(&cmd.FlagLogLevel, "verbose", "v", "Verbose level")
	rootCmd.PersistentFlags().BoolVar(&cmd.FlagNoCache, "no-cache", false, "Disable the lookup caches")

	rootCmd.AddCommand(cmd.ExtCommand())
	rootCmd.AddCommand(cmd.PatternCommand())
	rootCmd.AddCommand(cmd.ServeCommand())
	rootCmd.AddCommand(cmd.VersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
