package transport

import (
	"net"

	"google.golang.org/grpc"
)

// Server is a minimal gRPC host for transformer plugins.
type Server struct {
	grpc *grpc.Server
	lis  net.Listener
}

// StartServer binds addr and lets register attach services before Serve.
func StartServer(addr string, register func(grpc.ServiceRegistrar)) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServer(lis, register), nil
}

func NewServer(lis net.Listener, register func(grpc.ServiceRegistrar)) *Server {
	s := &Server{
		grpc: grpc.NewServer(),
		lis:  lis,
	}
	register(s.grpc)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
