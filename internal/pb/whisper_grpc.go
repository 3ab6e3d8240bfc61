package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Whisper_Whispering_FullMethodName is the wire name of the unary call.
const Whisper_Whispering_FullMethodName = "/whisper.Whisper/Whispering"

// WhisperClient is the client API for the Whisper service.
type WhisperClient interface {
	Whispering(ctx context.Context, in *WhisperRequest,
		opts ...grpc.CallOption) (*WhisperReply, error)
}

type whisperClient struct {
	cc grpc.ClientConnInterface
}

// NewWhisperClient wraps the connection with the service's call surface.
func NewWhisperClient(cc grpc.ClientConnInterface) WhisperClient {
	return &whisperClient{cc: cc}
}

func (c *whisperClient) Whispering(ctx context.Context, in *WhisperRequest,
	opts ...grpc.CallOption) (*WhisperReply, error) {
	out := new(WhisperReply)
	err := c.cc.Invoke(ctx, Whisper_Whispering_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WhisperServer is the server API for the Whisper service.
type WhisperServer interface {
	Whispering(context.Context, *WhisperRequest) (*WhisperReply, error)
}

// UnimplementedWhisperServer may be embedded for forward compatibility.
type UnimplementedWhisperServer struct{}

func (UnimplementedWhisperServer) Whispering(context.Context, *WhisperRequest) (
	*WhisperReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Whispering not implemented")
}

// RegisterWhisperServer binds srv to the Whisper service on s.
func RegisterWhisperServer(s grpc.ServiceRegistrar, srv WhisperServer) {
	s.RegisterService(&Whisper_ServiceDesc, srv)
}

func _Whisper_Whispering_Handler(srv interface{}, ctx context.Context,
	dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (
	interface{}, error) {
	in := new(WhisperRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WhisperServer).Whispering(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Whisper_Whispering_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WhisperServer).Whispering(ctx, req.(*WhisperRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Whisper_ServiceDesc is the grpc.ServiceDesc for the Whisper service.
var Whisper_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "whisper.Whisper",
	HandlerType: (*WhisperServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Whispering",
			Handler:    _Whisper_Whispering_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/pb/whisper.proto",
}
