package signer

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/keys"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"
)

// 签名后 P2PKH scriptSig 的估算大小: push(72 字节签名) + push(33 字节公钥)
const p2pkhScriptSigSize = 107

// P2WPKH witness 的估算权重: 项数 + 签名 + 公钥
const p2wpkhWitnessWeight = 108

// SignPsbt 对 PSBT 的指定输入签名。
//
// 部分签名模式下只签名并终结 indexes 中的输入，返回仍是 PSBT 的 hex；
// sighash 不在白名单内时直接返回 ErrUnsupportedSighashType，不解析也不修改 PSBT。
// 完整签名模式下用 SIGHASH_ALL 签名 indexes，再终结全部尚未终结的输入，
// WithTx 时提取最终交易。
func (s *Signer) SignPsbt(rawPsbtHex string, indexes []int, wif string, opts Options) (*PsbtResult, error) {
	if opts.SighashType == 0 {
		opts.SighashType = SigHashAll
	}
	if !IsAllowedSighash(opts.SighashType) {
		return nil, fmt.Errorf("%w: %s", errno.ErrUnsupportedSighashType, opts.SighashType)
	}

	packet, err := DecodePsbt(rawPsbtHex)
	if err != nil {
		return nil, err
	}
	if err := checkIndexes(indexes, len(packet.UnsignedTx.TxIn)); err != nil {
		return nil, err
	}

	kp, err := keys.FromWIF(wif, s.params)
	if err != nil {
		return nil, err
	}

	if opts.Partial {
		return s.signPartial(packet, indexes, kp, opts.SighashType)
	}
	return s.signFull(packet, indexes, kp, opts.WithTx)
}

func (s *Signer) signPartial(packet *psbt.Packet, indexes []int, kp *keys.KeyPair, hashType SighashType) (*PsbtResult, error) {
	// SIGHASH_ALL 的手续费需要全部输入金额，缺任何一个都在签名前拒绝
	var inputsTotal int64
	if hashType == SigHashAll {
		total, err := sumInputs(packet)
		if err != nil {
			return nil, fmt.Errorf("%w: SIGHASH_ALL fee needs utxo data for every input", err)
		}
		inputsTotal = total
	}

	if err := s.signInputs(packet, indexes, kp, hashType); err != nil {
		return nil, err
	}
	for _, idx := range indexes {
		if isFinalized(&packet.Inputs[idx]) {
			continue
		}
		if err := psbt.Finalize(packet, idx); err != nil {
			return nil, fmt.Errorf("%w: finalize input %d: %v", errno.ErrInvalidTransactionFormat, idx, err)
		}
	}

	amount, fee, err := partialAccounting(packet.UnsignedTx, indexes, hashType, inputsTotal)
	if err != nil {
		return nil, err
	}

	raw, err := EncodePsbt(packet)
	if err != nil {
		return nil, err
	}

	s.log.Debug("psbt partially signed",
		zap.Stringer("sighash", hashType),
		zap.Ints("indexes", indexes),
		zap.Int64("amount", amount),
		zap.Int64("fee", fee),
	)
	return &PsbtResult{RawTx: raw, Fee: fee, Amount: amount}, nil
}

func (s *Signer) signFull(packet *psbt.Packet, indexes []int, kp *keys.KeyPair, withTx bool) (*PsbtResult, error) {
	fee, err := packet.GetTxFee()
	if err != nil {
		return nil, fmt.Errorf("%w: fee: %v", errno.ErrInvalidTransactionFormat, err)
	}
	if err := s.checkFeeRate(packet, int64(fee)); err != nil {
		return nil, err
	}

	if err := s.signInputs(packet, indexes, kp, SigHashAll); err != nil {
		return nil, err
	}

	// 其余输入假定已由其他签名方签好，未签名的输入在这里失败
	for i := range packet.Inputs {
		if isFinalized(&packet.Inputs[i]) {
			continue
		}
		if err := psbt.Finalize(packet, i); err != nil {
			return nil, fmt.Errorf("%w: finalize input %d: %v", errno.ErrInvalidTransactionFormat, i, err)
		}
	}

	result := &PsbtResult{
		Fee:    int64(fee),
		Amount: sumOutputs(packet.UnsignedTx),
	}

	if withTx {
		tx, err := psbt.Extract(packet)
		if err != nil {
			return nil, fmt.Errorf("%w: extract: %v", errno.ErrInvalidTransactionFormat, err)
		}
		if result.RawTx, err = encodeTx(tx); err != nil {
			return nil, err
		}
		s.log.Debug("psbt fully signed",
			zap.String("txid", tx.TxHash().String()),
			zap.Int64("amount", result.Amount),
			zap.Int64("fee", result.Fee),
		)
	}
	return result, nil
}

// signInputs 对每个下标计算 sighash 并把部分签名写入 PSBT
func (s *Signer) signInputs(packet *psbt.Packet, indexes []int, kp *keys.KeyPair, hashType SighashType) error {
	if len(indexes) == 0 {
		return nil
	}

	fetcher, missing, err := prevOutFetcher(packet)
	if err != nil {
		return err
	}
	var sigHashes *txscript.TxSigHashes

	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return fmt.Errorf("%w: %v", errno.ErrInvalidTransactionFormat, err)
	}

	p2pkh, err := p2pkhScript(kp, s.params)
	if err != nil {
		return err
	}
	p2wpkh, err := p2wpkhScript(kp, s.params)
	if err != nil {
		return err
	}

	for _, idx := range indexes {
		in := &packet.Inputs[idx]
		if isFinalized(in) {
			return fmt.Errorf("%w: input %d already finalized", errno.ErrInvalidTransactionFormat, idx)
		}

		prev := fetcher.FetchPrevOutput(packet.UnsignedTx.TxIn[idx].PreviousOutPoint)
		if prev == nil || missing[idx] {
			return fmt.Errorf("%w: input %d has no utxo data", errno.ErrInvalidTransactionFormat, idx)
		}

		var sig []byte
		switch {
		case bytes.Equal(prev.PkScript, p2pkh):
			if in.NonWitnessUtxo == nil {
				return fmt.Errorf("%w: legacy input %d needs the full previous transaction", errno.ErrInvalidTransactionFormat, idx)
			}
			sig, err = txscript.RawTxInSignature(packet.UnsignedTx, idx, prev.PkScript, hashType.txscript(), kp.Private)
		case bytes.Equal(prev.PkScript, p2wpkh):
			if !kp.Compressed {
				return fmt.Errorf("%w: segwit input %d needs a compressed key", errno.ErrInvalidKey, idx)
			}
			if sigHashes == nil {
				sigHashes = txscript.NewTxSigHashes(packet.UnsignedTx, fetcher)
			}
			sig, err = txscript.RawTxInWitnessSignature(packet.UnsignedTx, sigHashes, idx, prev.Value, prev.PkScript, hashType.txscript(), kp.Private)
		default:
			return fmt.Errorf("%w: input %d is not spendable by this key", errno.ErrInvalidKey, idx)
		}
		if err != nil {
			return fmt.Errorf("sign input %d: %w", idx, err)
		}

		if hashType != SigHashAll {
			if err := updater.AddInSighashType(hashType.txscript(), idx); err != nil {
				return fmt.Errorf("%w: input %d: %v", errno.ErrInvalidTransactionFormat, idx, err)
			}
		}
		outcome, err := updater.Sign(idx, sig, kp.PublicKey(), nil, nil)
		if err != nil || outcome == psbt.SignInvalid {
			return fmt.Errorf("%w: input %d rejected signature: %v", errno.ErrInvalidTransactionFormat, idx, err)
		}
	}
	return nil
}

// partialAccounting 部分签名时的金额与手续费。
// ALL: amount 为全部输出之和, fee = 输出之和 - 输入之和。
// ANYONECANPAY / ALL|ANYONECANPAY: amount 为全部输出之和, fee = 0。
// SINGLE / SINGLE|ANYONECANPAY: amount 只累加与签名下标相同的输出 (不存在的跳过), fee = 0。
func partialAccounting(tx *wire.MsgTx, indexes []int, hashType SighashType, inputsTotal int64) (amount, fee int64, err error) {
	switch hashType {
	case SigHashAll:
		amount = sumOutputs(tx)
		fee = amount - inputsTotal
	case SigHashAnyOneCanPay, SigHashAllAnyOneCanPay:
		amount = sumOutputs(tx)
	case SigHashSingle, SigHashSingleAnyOneCanPay:
		for _, idx := range indexes {
			if idx >= 0 && idx < len(tx.TxOut) {
				amount += tx.TxOut[idx].Value
			}
		}
	default:
		return 0, 0, fmt.Errorf("%w: %s", errno.ErrUnsupportedSighashType, hashType)
	}
	return amount, fee, nil
}

// checkFeeRate 签名前按估算的签名后 vsize 检查费率
func (s *Signer) checkFeeRate(packet *psbt.Packet, fee int64) error {
	vsize := estimateVSize(packet)
	if vsize <= 0 {
		return nil
	}
	if fee > s.maxFeeRate*vsize {
		return fmt.Errorf("%w: fee %d over %d vbytes (max %d/vbyte)", errno.ErrFeeRateTooHigh, fee, vsize, s.maxFeeRate)
	}
	return nil
}

func estimateVSize(packet *psbt.Packet) int64 {
	weight := int64(packet.UnsignedTx.SerializeSizeStripped()) * 4
	hasWitness := false
	for i := range packet.Inputs {
		in := &packet.Inputs[i]
		switch {
		case isFinalized(in):
			weight += int64(len(in.FinalScriptSig)) * 4
			if len(in.FinalScriptWitness) > 0 {
				weight += int64(len(in.FinalScriptWitness))
				hasWitness = true
			}
		case in.WitnessUtxo != nil && txscript.IsPayToWitnessPubKeyHash(in.WitnessUtxo.PkScript):
			weight += p2wpkhWitnessWeight
			hasWitness = true
		default:
			weight += p2pkhScriptSigSize * 4
		}
	}
	if hasWitness {
		weight += 2 // marker + flag
	}
	return (weight + 3) / 4
}

// PsbtFee 不签名，只计算金额与手续费 (输入之和 - 输出之和)
func (s *Signer) PsbtFee(rawPsbtHex string) (*PsbtResult, error) {
	packet, err := DecodePsbt(rawPsbtHex)
	if err != nil {
		return nil, err
	}
	fee, err := packet.GetTxFee()
	if err != nil {
		return nil, fmt.Errorf("%w: fee: %v", errno.ErrInvalidTransactionFormat, err)
	}
	return &PsbtResult{Fee: int64(fee), Amount: sumOutputs(packet.UnsignedTx)}, nil
}

// DecodePsbt hex -> psbt.Packet
func DecodePsbt(rawPsbtHex string) (*psbt.Packet, error) {
	raw, err := hex.DecodeString(rawPsbtHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidTransactionFormat, err)
	}
	packet, err := psbt.NewFromRawBytes(bytes.NewReader(raw), false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidTransactionFormat, err)
	}
	return packet, nil
}

// EncodePsbt psbt.Packet -> hex
func EncodePsbt(packet *psbt.Packet) (string, error) {
	var buf bytes.Buffer
	if err := packet.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func isFinalized(in *psbt.PInput) bool {
	return len(in.FinalScriptSig) > 0 || len(in.FinalScriptWitness) > 0
}

func prevOutput(packet *psbt.Packet, idx int) (*wire.TxOut, error) {
	in := &packet.Inputs[idx]
	if in.WitnessUtxo != nil {
		return in.WitnessUtxo, nil
	}
	if in.NonWitnessUtxo != nil {
		op := packet.UnsignedTx.TxIn[idx].PreviousOutPoint
		if in.NonWitnessUtxo.TxHash() != op.Hash || int(op.Index) >= len(in.NonWitnessUtxo.TxOut) {
			return nil, fmt.Errorf("%w: input %d utxo does not match outpoint", errno.ErrInvalidTransactionFormat, idx)
		}
		return in.NonWitnessUtxo.TxOut[op.Index], nil
	}
	return nil, fmt.Errorf("%w: input %d has no utxo data", errno.ErrInvalidTransactionFormat, idx)
}

// prevOutFetcher 收集所有前序输出。缺少 utxo 数据的输入 (其他签名方的输入) 用空输出占位，
// BIP143 v0 只用到被签名输入自身的金额；missing 记录这些下标，签名它们时报错。
func prevOutFetcher(packet *psbt.Packet) (fetcher *txscript.MultiPrevOutFetcher, missing map[int]bool, err error) {
	fetcher = txscript.NewMultiPrevOutFetcher(nil)
	missing = make(map[int]bool)
	for i, txIn := range packet.UnsignedTx.TxIn {
		in := &packet.Inputs[i]
		if in.WitnessUtxo == nil && in.NonWitnessUtxo == nil {
			missing[i] = true
			fetcher.AddPrevOut(txIn.PreviousOutPoint, &wire.TxOut{})
			continue
		}
		out, err := prevOutput(packet, i)
		if err != nil {
			return nil, nil, err
		}
		fetcher.AddPrevOut(txIn.PreviousOutPoint, out)
	}
	return fetcher, missing, nil
}

func sumInputs(packet *psbt.Packet) (int64, error) {
	var total int64
	for i := range packet.UnsignedTx.TxIn {
		out, err := prevOutput(packet, i)
		if err != nil {
			return 0, err
		}
		total += out.Value
	}
	return total, nil
}

func sumOutputs(tx *wire.MsgTx) int64 {
	var total int64
	for _, out := range tx.TxOut {
		total += out.Value
	}
	return total
}
