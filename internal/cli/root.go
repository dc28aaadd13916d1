package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs walletctl with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

type rootFlags struct {
	configPath string
	storage    string
	storageDir string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "walletctl",
		Short:         "walletctl: pair a wallet and submit supply-chain transactions",
		Long:          "walletctl drives the shared wallet session from a terminal. Without a pairing relay it falls back to a simulated wallet whose accounts are chosen interactively.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.wire(cmd, flags)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a config file (default ./config.yaml)")
	pf.StringVar(&flags.storage, "storage", "file", "where pairing state is kept: file or redis")
	pf.StringVar(&flags.storageDir, "storage-dir", "", "directory for the file storage (overrides storage.file_dir)")
	pf.BoolVar(&flags.jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newInitCmd(a),
		newConnectCmd(a),
		newStatusCmd(a),
		newTransferCmd(a),
		newMessageCmd(a),
		newTopicCmd(a),
		newProductCmd(a),
		newDisconnectCmd(a),
	)

	return rootCmd
}
