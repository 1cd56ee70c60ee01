package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno.
// 包装过的错误 (fmt.Errorf("%w")) 也能被识别。
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrStorage          = Errno{Code: 10004, Message: "Storage error"}
)

// Signing Errors (20000+)
var (
	ErrInvalidTransactionFormat = Errno{Code: 20101, Message: "invalid transaction format"}
	ErrUnsupportedSighashType   = Errno{Code: 20102, Message: "unsupported sighash type"}
	ErrFeeRateTooHigh           = Errno{Code: 20103, Message: "fee rate exceeds maximum"}
	ErrInvalidKey               = Errno{Code: 20104, Message: "invalid private key"}
)

// Messaging Errors
var (
	ErrDecryptionFailed = Errno{Code: 20201, Message: "decryption failed"}
	ErrMalformedPayload = Errno{Code: 20202, Message: "malformed encrypted payload"}
)

// Validation Errors, raised before anything is signed
var (
	ErrInvalidAddress      = Errno{Code: 20301, Message: "Invalid address"}
	ErrInsufficientBalance = Errno{Code: 20302, Message: "Insufficient balance"}
	ErrSelfSendRejected    = Errno{Code: 20303, Message: "Cannot send to yourself"}
	ErrInvalidAmount       = Errno{Code: 20304, Message: "Invalid Dev amount"}
)

// Relay Errors
var (
	ErrRequestRejected = Errno{Code: 20401, Message: "Request rejected"}
	ErrInvalidRequest  = Errno{Code: 20402, Message: "Invalid data"}
)
