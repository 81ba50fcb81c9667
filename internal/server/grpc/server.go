// Package grpc is the command surface: it exposes the provisioning
// workflow as the freepanel.v1.Provisioning service and renders results
// into the notices the chat front end shows its users.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/logging"
	pb "github.com/dmitrijs2005/freepanel/internal/proto"
	"github.com/dmitrijs2005/freepanel/internal/server/provisioning"
	"google.golang.org/grpc"
)

// Provisioner is the workflow behind the command surface.
type Provisioner interface {
	Register(ctx context.Context, platformUserID, email, displayName string) (*provisioning.Credentials, error)
	ProvisionServer(ctx context.Context, platformUserID, displayName string) (string, error)
}

type GRPCServer struct {
	address   string
	service   Provisioner
	panelLink string
	logger    logging.Logger
	jwtSecret []byte
	cooldown  *cooldown
}

func NewGRPCServer(a string, l logging.Logger, svc Provisioner, panelLink, secretKey string, interval time.Duration) *GRPCServer {
	return &GRPCServer{
		address:   a,
		service:   svc,
		panelLink: panelLink,
		logger:    l.With("module", "grpc_server"),
		jwtSecret: []byte(secretKey),
		cooldown:  newCooldown(interval),
	}
}

// newServer builds a gRPC server with the interceptors and service registered.
func (s *GRPCServer) newServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor, s.cooldownInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterProvisioningServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
