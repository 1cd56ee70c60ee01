package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"mydev-wallet/internal/service/spent"
	"mydev-wallet/internal/service/wallet"
	"mydev-wallet/pkg/bip39"
	"mydev-wallet/pkg/cache"
	"mydev-wallet/pkg/keystore"
	"mydev-wallet/pkg/network"
	"mydev-wallet/pkg/signer"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passwordEnv 非交互环境下从环境变量读取密码
const passwordEnv = "WALLET_PASSWORD"

func readPassword(prompt string) (string, error) {
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(b), nil
}

// unlock 解密 keystore，构造钱包服务并派生 --account 指定的账户
func unlock(cmd *cobra.Command) (wallet.Service, *wallet.Account, error) {
	path, _ := cmd.Flags().GetString("keystore")
	index, _ := cmd.Flags().GetUint32("account")

	encrypted, err := keystore.LoadFromFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("加载 Keystore 失败: %w", err)
	}
	password, err := readPassword("请输入 Keystore 密码: ")
	if err != nil {
		return nil, nil, err
	}
	mnemonic, err := keystore.DecryptMnemonic(encrypted, password)
	if err != nil {
		return nil, nil, fmt.Errorf("解密失败: %w", err)
	}
	seed, err := bip39.NewMnemonicService().SeedFromPhrase(mnemonic)
	if err != nil {
		return nil, nil, err
	}

	svc, err := newService(seed)
	if err != nil {
		return nil, nil, err
	}
	acct, err := svc.GenerateAddress(context.Background(), index)
	if err != nil {
		return nil, nil, err
	}
	return svc, acct, nil
}

func newService(seed []byte) (wallet.Service, error) {
	params := network.Params()
	return wallet.New(wallet.Deps{
		Params: params,
		Signer: signer.New(params),
		// CLI 是一次性进程，已花费记录只在本次运行内有效
		Spent: spent.New(cache.NewMemoryStore(spent.PendingWindow, time.Minute)),
		Seed:  seed,
	})
}

// newOfflineService 不需要私钥的操作使用
func newOfflineService() wallet.Service {
	svc, err := newService(nil)
	if err != nil {
		panic(err)
	}
	return svc
}

// readInput 参数以 @ 开头时读取文件内容
func readInput(v string) (string, error) {
	if len(v) > 1 && v[0] == '@' {
		b, err := os.ReadFile(v[1:])
		if err != nil {
			return "", err
		}
		return string(trimNewline(b)), nil
	}
	return v, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
