package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mydev-wallet/pkg/signer"

	"github.com/spf13/cobra"
)

var signTxCmd = &cobra.Command{
	Use:   "sign-tx <raw-tx-hex | @file>",
	Short: "离线签名原始交易 (P2PKH, SIGHASH_ALL)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawTx, err := readInput(args[0])
		if err != nil {
			return err
		}
		indexes, _ := cmd.Flags().GetIntSlice("indexes")

		svc, acct, err := unlock(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()

		// 签名前显示交易详情供用户确认 (Verify on Screen)
		summary, err := svc.DecodeTransaction(ctx, rawTx)
		if err != nil {
			return err
		}
		printSummary(acct.Address, summary)
		if !confirm(cmd) {
			return fmt.Errorf("已取消")
		}

		signed, err := svc.SignTransaction(ctx, rawTx, indexes, acct.WIF)
		if err != nil {
			return err
		}
		return writeResult(cmd, signed)
	},
}

var signPsbtCmd = &cobra.Command{
	Use:   "sign-psbt <psbt-hex | @file>",
	Short: "签名 PSBT",
	Long: `签名 PSBT 中的指定输入。
--partial 只签名不定稿，可使用 --sighash 指定 1 / 3 / 128 / 129 / 131；
否则使用 SIGHASH_ALL 签名、定稿并提取交易 (--sign-only 时只返回 PSBT)。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args[0])
		if err != nil {
			return err
		}
		indexes, _ := cmd.Flags().GetIntSlice("indexes")
		partial, _ := cmd.Flags().GetBool("partial")
		signOnly, _ := cmd.Flags().GetBool("sign-only")
		sighash, _ := cmd.Flags().GetUint32("sighash")
		if len(indexes) == 0 {
			return fmt.Errorf("--indexes 不能为空")
		}
		opts := signer.NewOptions(!signOnly, partial, sighash)

		svc, acct, err := unlock(cmd)
		if err != nil {
			return err
		}
		res, err := svc.SignPsbt(context.Background(), raw, indexes, acct.WIF, opts)
		if err != nil {
			return err
		}
		return writeResult(cmd, map[string]interface{}{
			"raw_tx": res.RawTx,
			"fee":    res.FeeCoins(),
			"amount": res.AmountCoins(),
		})
	},
}

func printSummary(from string, s *signer.TxSummary) {
	fmt.Println("\n================ 待签名交易 ================")
	fmt.Printf("From:       %s\n", from)
	fmt.Printf("TxID:       %s\n", s.TxID)
	fmt.Printf("Inputs:     %d\n", len(s.Inputs))
	for _, out := range s.Outputs {
		fmt.Printf("  -> %-36s %s\n", out.Address, out.Coins)
	}
	fmt.Println("============================================")
}

func confirm(cmd *cobra.Command) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Print("确认签名? [y/N]: ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

// writeResult 输出 JSON，指定 --output 时写入文件
func writeResult(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("保存结果失败: %w", err)
	}
	fmt.Printf("✅ 已保存到: %s\n", out)
	return nil
}

func init() {
	rootCmd.AddCommand(signTxCmd, signPsbtCmd)

	signTxCmd.Flags().IntSlice("indexes", nil, "要签名的输入序号，默认全部")
	signTxCmd.Flags().BoolP("yes", "y", false, "跳过确认")
	signTxCmd.Flags().StringP("output", "o", "", "结果输出文件")

	signPsbtCmd.Flags().IntSlice("indexes", nil, "要签名的输入序号")
	signPsbtCmd.Flags().Bool("partial", false, "部分签名")
	signPsbtCmd.Flags().Bool("sign-only", false, "完整签名但不提取交易")
	signPsbtCmd.Flags().Uint32("sighash", uint32(signer.SigHashAll), "部分签名的 sighash 类型")
	signPsbtCmd.Flags().StringP("output", "o", "", "结果输出文件")
}
