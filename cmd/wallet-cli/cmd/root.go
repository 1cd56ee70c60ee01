package cmd

import (
	"fmt"
	"os"

	"mydev-wallet/pkg/errno"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "Dogecoinev 离线签名工具",
	Long: `离线管理 Dogecoinev 钱包:
生成并加密保存助记词、派生地址、签名原始交易 / PSBT、消息签名与加解密。`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 出错时打印错误码与信息，退出码 1
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code, msg := errno.Decode(err)
		fmt.Fprintf(os.Stderr, "错误 [%d]: %s\n", code, msg)
		if msg != err.Error() {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("keystore", "k", "wallet.json", "Keystore 文件路径")
	flags.Uint32P("account", "a", 0, "账户序号 (BIP-44 address_index)")
}
