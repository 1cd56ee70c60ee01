package address

import (
	"fmt"
	"strings"

	"mydev-wallet/pkg/errno"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// Generator 地址生成器
type Generator struct {
	network *chaincfg.Params
}

func NewGenerator(network *chaincfg.Params) *Generator {
	return &Generator{network: network}
}

// PubKeyToAddress 将公钥字节 (压缩格式) 转换为 P2PKH 地址
func (g *Generator) PubKeyToAddress(pubKeyBytes []byte) (string, error) {
	addr, err := btcutil.NewAddressPubKey(pubKeyBytes, g.network)
	if err != nil {
		return "", err
	}
	return addr.AddressPubKeyHash().EncodeAddress(), nil
}

// Validate 校验 base58check 格式、校验和以及版本字节 (P2PKH / P2SH)
func (g *Generator) Validate(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("%w: empty", errno.ErrInvalidAddress)
	}
	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", errno.ErrInvalidAddress, err)
	}
	if len(payload) != 20 {
		return fmt.Errorf("%w: bad payload length %d", errno.ErrInvalidAddress, len(payload))
	}
	if version != g.network.PubKeyHashAddrID && version != g.network.ScriptHashAddrID {
		return fmt.Errorf("%w: unknown version byte 0x%02x", errno.ErrInvalidAddress, version)
	}
	return nil
}

// IsValid Validate 的布尔版本
func (g *Generator) IsValid(addr string) bool {
	return g.Validate(addr) == nil
}

// PayToAddrScript 地址 -> 输出脚本
func (g *Generator) PayToAddrScript(addr string) ([]byte, error) {
	if err := g.Validate(addr); err != nil {
		return nil, err
	}
	decoded, err := btcutil.DecodeAddress(addr, g.network)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidAddress, err)
	}
	return txscript.PayToAddrScript(decoded)
}

// ScriptToAddress 输出脚本 -> 地址，非标准脚本返回空串
func (g *Generator) ScriptToAddress(pkScript []byte) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, g.network)
	if err != nil || len(addrs) != 1 {
		return ""
	}
	return addrs[0].EncodeAddress()
}
