package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mydev-wallet/internal/handler/request"
	"mydev-wallet/internal/service/wallet"
	"mydev-wallet/pkg/errno"
	"mydev-wallet/pkg/logger"
	"mydev-wallet/pkg/signer"
	"mydev-wallet/pkg/validator"

	playground "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SignerHandler implements SignerServer
type SignerHandler struct {
	svc      wallet.Service
	validate *playground.Validate
}

func NewSignerHandler(svc wallet.Service) *SignerHandler {
	v := validator.New()
	v.SetTagName("binding") // 与 gin 的请求结构体共用 tag
	return &SignerHandler{svc: svc, validate: v}
}

func (h *SignerHandler) SignTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.SignTransactionRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	out, err := h.svc.SignTransaction(ctx, req.RawTx, req.Indexes, req.WIF)
	return reply(out, err)
}

func (h *SignerHandler) SignPsbt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.SignPsbtRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	res, err := h.svc.SignPsbt(ctx, req.RawPsbt, req.Indexes, req.WIF, signer.NewOptions(!req.SignOnly, req.Partial, req.SighashType))
	if err != nil {
		return reply(nil, err)
	}
	return reply(map[string]interface{}{
		"raw_tx": res.RawTx,
		"fee":    res.FeeCoins().String(),
		"amount": res.AmountCoins().String(),
	}, nil)
}

func (h *SignerHandler) PsbtFee(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.PsbtFeeRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	res, err := h.svc.PsbtFee(ctx, req.RawPsbt)
	if err != nil {
		return reply(nil, err)
	}
	return reply(map[string]interface{}{"fee": res.FeeCoins().String()}, nil)
}

func (h *SignerHandler) SignMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.SignMessageRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	sig, err := h.svc.SignMessage(ctx, req.Message, req.WIF)
	return reply(map[string]interface{}{"signature": sig}, err)
}

func (h *SignerHandler) VerifyMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.VerifyMessageRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	err := h.svc.VerifyMessage(ctx, req.Message, req.Address, req.Signature)
	return reply(map[string]interface{}{"valid": true}, err)
}

func (h *SignerHandler) EncryptMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.EncryptMessageRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	payload, err := h.svc.EncryptMessage(ctx, req.PublicKey, req.Message)
	return reply(map[string]interface{}{"payload": payload}, err)
}

func (h *SignerHandler) DecryptMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.DecryptMessageRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	plain, err := h.svc.DecryptMessage(ctx, req.WIF, req.Payload)
	return reply(map[string]interface{}{"message": plain}, err)
}

func (h *SignerHandler) GenerateAddress(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.GenerateAddressRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	acct, err := h.svc.GenerateAddress(ctx, req.Index)
	return reply(acct, err)
}

func (h *SignerHandler) ValidateAddress(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req request.ValidateAddressRequest
	if err := h.bind(in, &req); err != nil {
		return nil, err
	}
	err := h.svc.ValidateAddress(ctx, req.Address)
	return reply(map[string]interface{}{"valid": true}, err)
}

// bind Struct -> JSON -> 请求结构体，复用 HTTP 的校验规则
func (h *SignerHandler) bind(in *structpb.Struct, req interface{}) error {
	raw, err := in.MarshalJSON()
	if err != nil {
		return toStatus(fmt.Errorf("%w: %v", errno.ErrBind, err))
	}
	if err := json.Unmarshal(raw, req); err != nil {
		return toStatus(fmt.Errorf("%w: %v", errno.ErrBind, err))
	}
	if err := h.validate.Struct(req); err != nil {
		return toStatus(fmt.Errorf("%w: %s", errno.ErrBind, validator.GetErrorMsg(err)))
	}
	return nil
}

func reply(v interface{}, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus errno -> gRPC status，消息带上业务错误码
func toStatus(err error) error {
	code, msg := errno.Decode(err)
	var typed errno.Errno
	grpcCode := codes.Internal
	if errors.As(err, &typed) {
		switch typed {
		case errno.InternalServerError:
			grpcCode = codes.Internal
		case errno.ErrStorage:
			grpcCode = codes.Unavailable
		case errno.ErrRequestRejected:
			grpcCode = codes.Aborted
		default:
			grpcCode = codes.InvalidArgument
		}
	} else {
		logger.Warn("gRPC call failed with untyped error", zap.Error(err))
	}
	return status.Errorf(grpcCode, "%d: %s", code, msg)
}
