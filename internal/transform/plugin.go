package transform

import (
	"context"
	"fmt"
	"time"

	pluginv1 "fileproc/api/plugin/v1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client wraps a transformer (over gRPC or in‑process) and exposes a uniform API.
type Client interface {
	Transform(ctx context.Context, text string) (string, error)
	Close() error
}

// Func is an in-process transformation.
type Func func(string) string

// InProcessClient adapts a Func compiled into the binary.
type InProcessClient struct {
	fn Func
}

func NewInProcessClient(fn Func) *InProcessClient { return &InProcessClient{fn: fn} }

func (c *InProcessClient) Transform(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.fn(text), nil
}

func (c *InProcessClient) Close() error { return nil }

// GRPCClient calls a plugin implementing fileproc.transform.v1.Transformer.
type GRPCClient struct {
	conn    *grpc.ClientConn
	svc     pluginv1.TransformerClient
	timeout time.Duration
}

func NewGRPCClient(target string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		conn:    conn,
		svc:     pluginv1.NewTransformerClient(conn),
		timeout: timeout,
	}, nil
}

func (c *GRPCClient) Transform(ctx context.Context, text string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.svc.Transform(ctx, wrapperspb.String(text))
	if err != nil {
		return "", fmt.Errorf("transform plugin: %w", err)
	}
	return resp.GetValue(), nil
}

// Health returns the plugin's self-reported status line.
func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	resp, err := c.svc.Health(ctx, &wrapperspb.StringValue{})
	if err != nil {
		return "", err
	}
	return resp.GetValue(), nil
}

func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Server exposes a Func as a Transformer plugin.
type Server struct {
	pluginv1.UnimplementedTransformerServer
	Name string
	Fn   Func
}

func (s *Server) Transform(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.Fn(in.GetValue())), nil
}

func (s *Server) Health(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.Name + ": OK"), nil
}
