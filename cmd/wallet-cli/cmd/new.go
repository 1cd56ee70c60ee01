package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"mydev-wallet/pkg/bip39"
	"mydev-wallet/pkg/keystore"

	"github.com/spf13/cobra"
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建新钱包 (生成助记词并加密保存)",
	Long:  `生成 12 词 BIP-39 助记词 (或用 --import 导入已有助记词)，使用密码加密后保存为 keystore 文件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("keystore")
		importPhrase, _ := cmd.Flags().GetBool("import")

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("文件 %s 已存在，请先删除或用 -k 指定其他文件名", path)
		}

		service := bip39.NewMnemonicService()
		var mnemonic string
		if importPhrase {
			fmt.Print("请输入助记词: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("读取助记词失败: %w", err)
			}
			mnemonic = strings.TrimSpace(line)
			if !service.ValidateMnemonic(mnemonic) {
				return bip39.ErrInvalidMnemonic
			}
		} else {
			var err error
			if mnemonic, err = service.GeneratePhrase(); err != nil {
				return err
			}
		}

		// 1. 输入密码
		fmt.Println("请设置一个强密码来保护您的助记词。")
		password, err := readPassword("输入密码: ")
		if err != nil {
			return err
		}
		if os.Getenv(passwordEnv) == "" {
			confirm, err := readPassword("确认密码: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("两次输入的密码不一致")
			}
		}
		if len(password) < 6 {
			return fmt.Errorf("密码长度至少需要 6 位")
		}

		// 2. 加密保存
		encrypted, err := keystore.EncryptMnemonic(mnemonic, password)
		if err != nil {
			return fmt.Errorf("加密失败: %w", err)
		}
		if err := encrypted.SaveToFile(path); err != nil {
			return fmt.Errorf("保存文件失败: %w", err)
		}

		fmt.Printf("✅ 钱包已保存到 %s\n", path)
		if !importPhrase {
			fmt.Println("---------------------------------------------------")
			fmt.Printf("助记词 (Mnemonic):\n%s\n", mnemonic)
			fmt.Println("---------------------------------------------------")
			fmt.Println("请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().Bool("import", false, "导入已有助记词而不是生成新的")
}
