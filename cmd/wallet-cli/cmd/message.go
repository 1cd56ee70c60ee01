package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var signMessageCmd = &cobra.Command{
	Use:   "sign-message <message>",
	Short: "用账户私钥签名消息 (base64)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, acct, err := unlock(cmd)
		if err != nil {
			return err
		}
		sig, err := svc.SignMessage(context.Background(), args[0], acct.WIF)
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	},
}

// encrypt 只需要接收方公钥，不解锁 keystore
var encryptCmd = &cobra.Command{
	Use:   "encrypt <recipient-pubkey-hex> <message | @file>",
	Short: "ECDH + AES-256-GCM 加密消息",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := readInput(args[1])
		if err != nil {
			return err
		}
		payload, err := newOfflineService().EncryptMessage(context.Background(), args[0], msg)
		if err != nil {
			return err
		}
		fmt.Println(payload)
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <payload-base64 | @file>",
	Short: "用账户私钥解密消息",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readInput(args[0])
		if err != nil {
			return err
		}
		svc, acct, err := unlock(cmd)
		if err != nil {
			return err
		}
		plain, err := svc.DecryptMessage(context.Background(), acct.WIF, payload)
		if err != nil {
			return err
		}
		fmt.Println(plain)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signMessageCmd, encryptCmd, decryptCmd)
}
