package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skielred/twitter-images-collector/pkg/twitter"
)

var (
	version = "1.0.0"

	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Collects images from a Twitter timeline and serves them as a gallery",
	Long: `collector polls a Twitter timeline, downloads every attached image and
serves the collection through a small web gallery.

The poller runs forever: it fetches the configured timeline, stores posts it
has not seen, downloads their media and goes back to sleep. The web server
lists the collected images newest first, 100 per page.`,
	Version:      version,
	RunE:         run,
	SilenceUsage: true,
}

var timelinesCmd = &cobra.Command{
	Use:   "timelines",
	Short: "List the supported timeline types",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range twitter.TimelineTypes() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.twicol.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(timelinesCmd)
}
