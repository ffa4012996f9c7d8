package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/ocioraba/pkg/field"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the field parameters and construction contract",
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	fmt.Println("ociorabad: asynchronous Byzantine agreement with secret-sharing reconstruction")
	fmt.Printf("field modulus P = %s\n", field.Modulus())
	fmt.Println("byzantine behaviors: corrupt-share, random-vote, both")
	fmt.Println("requires n >= 3t+1")
	return nil
}
