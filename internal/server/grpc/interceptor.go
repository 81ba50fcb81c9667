package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/freepanel/internal/auth"
	"github.com/dmitrijs2005/freepanel/internal/common"
	pb "github.com/dmitrijs2005/freepanel/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

// UserIDKey holds the platform user id of the authenticated caller.
const UserIDKey ctxKey = "userID"

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func isProvisioningMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/"+pb.ServiceName+"/")
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if isProvisioningMethod(info.FullMethod) {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}

		ctx = context.WithValue(ctx, UserIDKey, userID)

	}

	return handler(ctx, req)
}

// cooldownInterceptor admits one call per method per user per interval.
// It runs after accessTokenInterceptor, so the user id is already known.
func (s *GRPCServer) cooldownInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if isProvisioningMethod(info.FullMethod) {
		userID, ok := userIDFromContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing user")
		}
		if wait, ok := s.cooldown.allow(info.FullMethod, userID); !ok {
			return nil, status.Error(codes.ResourceExhausted, cooldownMessage(wait))
		}
	}

	return handler(ctx, req)
}
