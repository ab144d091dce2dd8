package alarm

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alarmclock.v1.AlarmClock"

// Full method names.
const (
	MethodArm      = "/" + ServiceName + "/Arm"
	MethodSnooze   = "/" + ServiceName + "/Snooze"
	MethodStop     = "/" + ServiceName + "/Stop"
	MethodGetState = "/" + ServiceName + "/GetState"
)

// AlarmClockServer is the server API for the alarm clock service.
type AlarmClockServer interface {
	Arm(ctx context.Context, req *ArmRequest) (*AlarmStateResponse, error)
	Snooze(ctx context.Context, req *SnoozeRequest) (*AlarmStateResponse, error)
	Stop(ctx context.Context, req *StopRequest) (*AlarmStateResponse, error)
	GetState(ctx context.Context, req *GetStateRequest) (*AlarmStateResponse, error)
}

// ServiceDesc describes the alarm clock service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmClockServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Arm", Handler: unaryHandler(MethodArm, AlarmClockServer.Arm)},
		{MethodName: "Snooze", Handler: unaryHandler(MethodSnooze, AlarmClockServer.Snooze)},
		{MethodName: "Stop", Handler: unaryHandler(MethodStop, AlarmClockServer.Stop)},
		{MethodName: "GetState", Handler: unaryHandler(MethodGetState, AlarmClockServer.GetState)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmclock/v1/alarm_clock",
}

// RegisterAlarmClockServer registers srv on the gRPC server.
func RegisterAlarmClockServer(registrar grpc.ServiceRegistrar, srv AlarmClockServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// unaryHandler decodes the request and runs call through the interceptor chain.
func unaryHandler[Req any](
	fullMethod string,
	call func(AlarmClockServer, context.Context, *Req) (*AlarmStateResponse, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(AlarmClockServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AlarmClockServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AlarmClockClient is the client API for the alarm clock service.
type AlarmClockClient interface {
	Arm(ctx context.Context, req *ArmRequest, opts ...grpc.CallOption) (*AlarmStateResponse, error)
	Snooze(ctx context.Context, req *SnoozeRequest, opts ...grpc.CallOption) (*AlarmStateResponse, error)
	Stop(ctx context.Context, req *StopRequest, opts ...grpc.CallOption) (*AlarmStateResponse, error)
	GetState(ctx context.Context, req *GetStateRequest, opts ...grpc.CallOption) (*AlarmStateResponse, error)
}

type alarmClockClient struct {
	cc grpc.ClientConnInterface
}

// NewAlarmClockClient creates a client stub on cc. Every call is sent with
// the JSON content subtype.
func NewAlarmClockClient(cc grpc.ClientConnInterface) AlarmClockClient {
	return &alarmClockClient{cc: cc}
}

func (c *alarmClockClient) Arm(
	ctx context.Context,
	req *ArmRequest,
	opts ...grpc.CallOption,
) (*AlarmStateResponse, error) {
	return invoke(ctx, c.cc, MethodArm, req, opts)
}

func (c *alarmClockClient) Snooze(
	ctx context.Context,
	req *SnoozeRequest,
	opts ...grpc.CallOption,
) (*AlarmStateResponse, error) {
	return invoke(ctx, c.cc, MethodSnooze, req, opts)
}

func (c *alarmClockClient) Stop(
	ctx context.Context,
	req *StopRequest,
	opts ...grpc.CallOption,
) (*AlarmStateResponse, error) {
	return invoke(ctx, c.cc, MethodStop, req, opts)
}

func (c *alarmClockClient) GetState(
	ctx context.Context,
	req *GetStateRequest,
	opts ...grpc.CallOption,
) (*AlarmStateResponse, error) {
	return invoke(ctx, c.cc, MethodGetState, req, opts)
}

func invoke(
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	req any,
	opts []grpc.CallOption,
) (*AlarmStateResponse, error) {
	out := new(AlarmStateResponse)

	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
