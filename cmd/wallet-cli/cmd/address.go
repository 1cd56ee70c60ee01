package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "显示账户地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, acct, err := unlock(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("Path:       %s\n", acct.Path)
		fmt.Printf("Address:    %s\n", acct.Address)
		fmt.Printf("Public Key: %s\n", acct.PublicKey)

		if show, _ := cmd.Flags().GetBool("show-wif"); show {
			fmt.Printf("WIF:        %s\n", acct.WIF)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.Flags().Bool("show-wif", false, "同时显示私钥 (WIF)")
}
