// Package pluginv1 declares the fileproc.transform.v1.Transformer gRPC
// service. Payloads are google.protobuf.StringValue so no generated message
// code is required.
package pluginv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName     = "fileproc.transform.v1.Transformer"
	TransformMethod = "/" + ServiceName + "/Transform"
	HealthMethod    = "/" + ServiceName + "/Health"
)

// TransformerServer is implemented by plugins.
type TransformerServer interface {
	Transform(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Health(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedTransformerServer can be embedded to have forward compatible implementations.
type UnimplementedTransformerServer struct{}

func (UnimplementedTransformerServer) Transform(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Transform not implemented")
}

func (UnimplementedTransformerServer) Health(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Health not implemented")
}

// TransformerClient is the client API for the Transformer service.
type TransformerClient interface {
	Transform(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Health(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type transformerClient struct {
	cc grpc.ClientConnInterface
}

func NewTransformerClient(cc grpc.ClientConnInterface) TransformerClient {
	return &transformerClient{cc}
}

func (c *transformerClient) Transform(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, TransformMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *transformerClient) Health(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, HealthMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterTransformerServer(s grpc.ServiceRegistrar, srv TransformerServer) {
	s.RegisterService(&Transformer_ServiceDesc, srv)
}

func _Transformer_Transform_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransformerServer).Transform(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransformMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransformerServer).Transform(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Transformer_Health_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransformerServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HealthMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransformerServer).Health(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var Transformer_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TransformerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Transform", Handler: _Transformer_Transform_Handler},
		{MethodName: "Health", Handler: _Transformer_Health_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fileproc/transform/v1/transformer.proto",
}
