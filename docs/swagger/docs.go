// Package swagger 注册 /swagger 页面使用的 API 文档
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tx/sign": {
            "post": {
                "tags": ["Signer"],
                "summary": "完整签名原始交易 (SIGHASH_ALL)",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.SignTransactionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/tx/decode": {
            "post": {
                "tags": ["Signer"],
                "summary": "解析原始交易",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.DecodeTransactionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/tx/validate": {
            "post": {
                "tags": ["Signer"],
                "summary": "发送前校验地址、金额与余额",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.ValidateTransactionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/psbt/sign": {
            "post": {
                "tags": ["Signer"],
                "summary": "部分或完整签名 PSBT",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.SignPsbtRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/psbt/fee": {
            "post": {
                "tags": ["Signer"],
                "summary": "计算 PSBT 手续费",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.PsbtFeeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/message/sign": {
            "post": {
                "tags": ["Message"],
                "summary": "消息签名",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.SignMessageRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/message/verify": {
            "post": {
                "tags": ["Message"],
                "summary": "验证消息签名",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.VerifyMessageRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/message/encrypt": {
            "post": {
                "tags": ["Message"],
                "summary": "ECDH + AES-256-GCM 加密",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.EncryptMessageRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/message/decrypt": {
            "post": {
                "tags": ["Message"],
                "summary": "解密",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.DecryptMessageRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/address": {
            "post": {
                "tags": ["Address"],
                "summary": "派生账户地址",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.GenerateAddressRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/address/validate": {
            "post": {
                "tags": ["Address"],
                "summary": "校验地址",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.ValidateAddressRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/utxo/spent": {
            "get": {
                "tags": ["Address"],
                "summary": "已签名未确认的输入",
                "parameters": [
                    {"in": "query", "name": "txid", "type": "string", "required": false},
                    {"in": "query", "name": "vout", "type": "integer", "required": false}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/relay": {
            "post": {
                "tags": ["Relay"],
                "summary": "提交请求并等待处理结果",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/request.RelayRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/relay/state": {
            "get": {
                "tags": ["Relay"],
                "summary": "路由器状态",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "msg": {"type": "string"}, "data": {}}
        },
        "request.SignTransactionRequest": {
            "type": "object",
            "required": ["raw_tx", "wif"],
            "properties": {"raw_tx": {"type": "string"}, "indexes": {"type": "array", "items": {"type": "integer"}}, "wif": {"type": "string"}}
        },
        "request.SignPsbtRequest": {
            "type": "object",
            "required": ["raw_psbt", "indexes", "wif"],
            "properties": {
                "raw_psbt": {"type": "string"},
                "indexes": {"type": "array", "items": {"type": "integer"}},
                "wif": {"type": "string"},
                "partial": {"type": "boolean"},
                "sign_only": {"type": "boolean"},
                "sighash_type": {"type": "integer", "enum": [1, 3, 128, 129, 131]}
            }
        },
        "request.PsbtFeeRequest": {
            "type": "object",
            "required": ["raw_psbt"],
            "properties": {"raw_psbt": {"type": "string"}}
        },
        "request.DecodeTransactionRequest": {
            "type": "object",
            "required": ["raw_tx"],
            "properties": {"raw_tx": {"type": "string"}}
        },
        "request.ValidateTransactionRequest": {
            "type": "object",
            "required": ["sender_address", "recipient_address"],
            "properties": {
                "sender_address": {"type": "string"},
                "recipient_address": {"type": "string"},
                "amount": {"type": "string"},
                "balance": {"type": "integer"}
            }
        },
        "request.ValidateAddressRequest": {
            "type": "object",
            "required": ["address"],
            "properties": {"address": {"type": "string"}}
        },
        "request.GenerateAddressRequest": {
            "type": "object",
            "properties": {"index": {"type": "integer"}}
        },
        "request.SignMessageRequest": {
            "type": "object",
            "required": ["message", "wif"],
            "properties": {"message": {"type": "string"}, "wif": {"type": "string"}}
        },
        "request.VerifyMessageRequest": {
            "type": "object",
            "required": ["message", "address", "signature"],
            "properties": {"message": {"type": "string"}, "address": {"type": "string"}, "signature": {"type": "string"}}
        },
        "request.EncryptMessageRequest": {
            "type": "object",
            "required": ["public_key", "message"],
            "properties": {"public_key": {"type": "string"}, "message": {"type": "string"}}
        },
        "request.DecryptMessageRequest": {
            "type": "object",
            "required": ["payload", "wif"],
            "properties": {"payload": {"type": "string"}, "wif": {"type": "string"}}
        },
        "request.RelayRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {"type": {"type": "string"}, "data": {"type": "object"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Dogecoinev Wallet Signer API",
	Description:      "Transaction / PSBT signing and encrypted messaging",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
