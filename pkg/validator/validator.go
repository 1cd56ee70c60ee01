package validator

import (
	"fmt"
	"strings"

	"mydev-wallet/pkg/address"
	"mydev-wallet/pkg/network"
	"mydev-wallet/pkg/signer"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Init 在 gin 的校验引擎上注册自定义规则:
// devaddr  Dogecoinev P2PKH / P2SH 地址
// sighash  允许的 sighash 类型
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate = v
		register(v)
	}
}

// New 独立于 gin 的校验器，CLI 和测试使用
func New() *validator.Validate {
	v := validator.New()
	register(v)
	return v
}

func register(v *validator.Validate) {
	gen := address.NewGenerator(network.Params())
	_ = v.RegisterValidation("devaddr", func(fl validator.FieldLevel) bool {
		return gen.IsValid(fl.Field().String())
	})
	_ = v.RegisterValidation("sighash", func(fl validator.FieldLevel) bool {
		return signer.IsAllowedSighash(signer.SighashType(fl.Field().Uint()))
	})
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
			case "hexadecimal", "base64":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 %s 编码", field, tag))
			case "min":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度至少为 %s", field, param))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度不能超过 %s", field, param))
			case "oneof":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 [%s] 之一", field, param))
			case "devaddr":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不是有效的地址", field))
			case "sighash":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不是支持的 sighash 类型", field))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "请求参数错误"
}
