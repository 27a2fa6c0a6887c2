package cmd

import (
	"fmt"
	"os"

	"github.com/ardriveapp/astatine/config"
	"github.com/spf13/cobra"
)

var configPath string
var debug bool
var NodeConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "astatine",
	Short: "ArDrive usage reward cannon",
	Long: `Astatine emits a token budget over a fixed period and distributes each
run's share to the wallets that uploaded data through ArDrive, proportionally
to the bytes they uploaded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "help" {
			return
		}

		var err error
		NodeConfig, err = config.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		config.DefaultConfigPath,
		"path of the configuration file, defaults apply when it does not exist",
	)
	rootCmd.PersistentFlags().BoolVar(
		&debug,
		"debug",
		false,
		"enable debug logging",
	)
}
