// File: cmd/hioload-frame/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hioload-frame",
		Short: "Single-threaded non-blocking framed-TCP server",
		Long: `hioload-frame multiplexes many client sockets on one thread with a
level-triggered readiness poller. Each session speaks a length-prefixed
framing protocol and is driven through an explicit read/process/write
state machine; the request handler is pluggable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hioload-frame %s (%s)\n", version, commit)
		},
	}
}
