package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var rootCmd = &cobra.Command{
	Use:   "printshop",
	Short: "Print-shop order intake, conversion and scheduling backend",
	// без подкоманды запускаем сервер
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
