package signer

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// SighashType 签名所覆盖的交易范围
type SighashType uint32

const (
	SigHashAll                = SighashType(txscript.SigHashAll)                                    // 1
	SigHashNone               = SighashType(txscript.SigHashNone)                                   // 2, 不允许
	SigHashSingle             = SighashType(txscript.SigHashSingle)                                 // 3
	SigHashAnyOneCanPay       = SighashType(txscript.SigHashAnyOneCanPay)                           // 128
	SigHashAllAnyOneCanPay    = SighashType(txscript.SigHashAll | txscript.SigHashAnyOneCanPay)    // 129
	SigHashSingleAnyOneCanPay = SighashType(txscript.SigHashSingle | txscript.SigHashAnyOneCanPay) // 131
)

// AllowedSighashTypes 部分签名允许的全部类型。
// NONE 不在其中：签名后输出仍可被任意修改。
var AllowedSighashTypes = []SighashType{
	SigHashAll,
	SigHashSingle,
	SigHashAnyOneCanPay,
	SigHashAllAnyOneCanPay,
	SigHashSingleAnyOneCanPay,
}

func IsAllowedSighash(t SighashType) bool {
	for _, allowed := range AllowedSighashTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

func (t SighashType) String() string {
	switch t {
	case SigHashAll:
		return "ALL"
	case SigHashNone:
		return "NONE"
	case SigHashSingle:
		return "SINGLE"
	case SigHashAnyOneCanPay:
		return "ANYONECANPAY"
	case SigHashAllAnyOneCanPay:
		return "ALL|ANYONECANPAY"
	case SigHashSingleAnyOneCanPay:
		return "SINGLE|ANYONECANPAY"
	default:
		return fmt.Sprintf("SighashType(%d)", uint32(t))
	}
}

func (t SighashType) txscript() txscript.SigHashType {
	return txscript.SigHashType(t)
}
