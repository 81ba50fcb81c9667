package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/panel"
	pb "github.com/dmitrijs2005/freepanel/internal/proto"
	"github.com/dmitrijs2005/freepanel/internal/server/provisioning"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	msgRegistered      = "I sent your login credentials via DM."
	msgServerCreated   = "Server created! Check your DMs."
	msgMissingEmail    = "❌ Please provide an email address."
	msgInvalidEmail    = "❌ That doesn't look like a valid email address."
	msgAlreadyUser     = "❌ You are already registered."
	msgNotRegistered   = "❌ You need to register first with `/register`."
	msgAlreadyServer   = "❌ You already have a server."
	msgNodeFull        = "❌ Server limit reached on this node. Please try again later."
	msgNoAllocation    = "❌ No free allocations available on this node."
	msgInternal        = "❌ Something went wrong. Please try again later."
	failedCreateUser   = "❌ Failed to create user"
	failedCreateServer = "❌ Failed to create server"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	email := strings.TrimSpace(pb.StringField(req, pb.FieldEmail))
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, msgMissingEmail)
	}

	s.logger.Info(ctx, "Registration request", "user", userID)

	creds, err := s.service.Register(ctx, userID, email, pb.StringField(req, pb.FieldDisplayName))
	if err != nil {
		return nil, s.statusFor(provisioning.OpRegister, err)
	}

	private := fmt.Sprintf("✅ Registered!\nPanel: %s\nEmail: `%s`\nPassword: `%s`", s.panelLink, creds.Email, creds.Password)
	return pb.NewReply(msgRegistered, private), nil
}

func (s *GRPCServer) CreateFree(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	s.logger.Info(ctx, "Free server request", "user", userID)

	serverID, err := s.service.ProvisionServer(ctx, userID, pb.StringField(req, pb.FieldDisplayName))
	if err != nil {
		return nil, s.statusFor(provisioning.OpProvision, err)
	}

	private := fmt.Sprintf("✅ Your free server has been created!\nPanel: %s\nServer ID: `%s`", s.panelLink, serverID)
	return pb.NewReply(msgServerCreated, private), nil
}

// statusFor maps a workflow error onto a gRPC status whose message is the
// notice shown to the user. The workflow has already logged it.
func (s *GRPCServer) statusFor(op string, err error) error {
	var failed *provisioning.ProvisioningFailed
	var panelErr *panel.PanelError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, common.ErrInvalidEmail):
		return status.Error(codes.InvalidArgument, msgInvalidEmail)
	case errors.Is(err, common.ErrAlreadyRegistered):
		return status.Error(codes.AlreadyExists, msgAlreadyUser)
	case errors.Is(err, common.ErrAlreadyProvisioned):
		return status.Error(codes.AlreadyExists, msgAlreadyServer)
	case errors.Is(err, common.ErrNotRegistered):
		return status.Error(codes.FailedPrecondition, msgNotRegistered)
	case errors.Is(err, common.ErrCapacityExceeded):
		return status.Error(codes.ResourceExhausted, msgNodeFull)
	case errors.Is(err, common.ErrNoFreeAllocation):
		return status.Error(codes.ResourceExhausted, msgNoAllocation)
	case errors.As(err, &failed) && failed.Orphan != nil:
		return status.Error(codes.Internal, failurePrefix(op)+": "+err.Error())
	case errors.As(err, &panelErr):
		return status.Error(codes.Unavailable, failurePrefix(op)+": "+err.Error())
	default:
		return status.Error(codes.Internal, msgInternal)
	}
}

func failurePrefix(op string) string {
	if op == provisioning.OpRegister {
		return failedCreateUser
	}
	return failedCreateServer
}
