package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName 请求与响应都是 google.protobuf.Struct，字段与 HTTP 接口的 JSON 一致
const ServiceName = "mydev.wallet.v1.SignerService"

// SignerServer gRPC 签名服务
type SignerServer interface {
	SignTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SignPsbt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	PsbtFee(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SignMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	VerifyMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	EncryptMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	DecryptMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GenerateAddress(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ValidateAddress(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(s SignerServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func method(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(SignerServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// FullMethod "/mydev.wallet.v1.SignerService/SignPsbt"
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

var SignerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SignerServer)(nil),
	Methods: []grpc.MethodDesc{
		method("SignTransaction", SignerServer.SignTransaction),
		method("SignPsbt", SignerServer.SignPsbt),
		method("PsbtFee", SignerServer.PsbtFee),
		method("SignMessage", SignerServer.SignMessage),
		method("VerifyMessage", SignerServer.VerifyMessage),
		method("EncryptMessage", SignerServer.EncryptMessage),
		method("DecryptMessage", SignerServer.DecryptMessage),
		method("GenerateAddress", SignerServer.GenerateAddress),
		method("ValidateAddress", SignerServer.ValidateAddress),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mydev/wallet/v1/signer.proto",
}

// RegisterSignerServer 注册到 gRPC Server
func RegisterSignerServer(s grpc.ServiceRegistrar, srv SignerServer) {
	s.RegisterService(&SignerServiceDesc, srv)
}
