// Package proto declares the freepanel.v1.Provisioning gRPC service.
//
// Messages are google.protobuf.Struct values so the service needs no
// generated message types; the field names are the constants below.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "freepanel.v1.Provisioning"

const (
	Provisioning_Register_FullMethodName   = "/freepanel.v1.Provisioning/Register"
	Provisioning_CreateFree_FullMethodName = "/freepanel.v1.Provisioning/CreateFree"
)

// Request and reply field names.
const (
	FieldEmail       = "email"
	FieldDisplayName = "display_name"
	FieldEphemeral   = "ephemeral"
	FieldPrivate     = "private"
)

// ProvisioningClient is the client API for the Provisioning service.
type ProvisioningClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateFree(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type provisioningClient struct {
	cc grpc.ClientConnInterface
}

func NewProvisioningClient(cc grpc.ClientConnInterface) ProvisioningClient {
	return &provisioningClient{cc}
}

func (c *provisioningClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Provisioning_Register_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *provisioningClient) CreateFree(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Provisioning_CreateFree_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ProvisioningServer is the server API for the Provisioning service.
type ProvisioningServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateFree(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterProvisioningServer(s grpc.ServiceRegistrar, srv ProvisioningServer) {
	s.RegisterService(&Provisioning_ServiceDesc, srv)
}

func _Provisioning_Register_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProvisioningServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Provisioning_Register_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProvisioningServer).Register(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Provisioning_CreateFree_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProvisioningServer).CreateFree(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Provisioning_CreateFree_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProvisioningServer).CreateFree(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Provisioning_ServiceDesc is the grpc.ServiceDesc for the Provisioning service.
var Provisioning_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProvisioningServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    _Provisioning_Register_Handler,
		},
		{
			MethodName: "CreateFree",
			Handler:    _Provisioning_CreateFree_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "freepanel/v1/provisioning.proto",
}
