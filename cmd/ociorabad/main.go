package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ociorabad",
	Short: "Drive an OciorABA-style asynchronous Byzantine agreement cluster",
	Long: `ociorabad runs an in-process cluster of n nodes executing asynchronous
Byzantine agreement with secret-sharing-based value reconstruction, for
local testing of the protocol's termination and agreement behavior.`,
}

func main() {
	rootCmd.AddCommand(runCmd, infoCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
