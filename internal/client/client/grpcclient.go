package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/auth"
	"github.com/dmitrijs2005/freepanel/internal/common"
	pb "github.com/dmitrijs2005/freepanel/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.ProvisioningClient

	userID   string
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// token returns the cached access token, minting a new one when it is
// missing, forced, or past half of its lifetime.
func (s *GRPCClient) token(force bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !force && s.accessToken != "" && now.Before(s.expiresAt.Add(-s.tokenTTL/2)) {
		return s.accessToken, nil
	}

	token, err := auth.GenerateToken(s.userID, s.secret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("minting access token: %w", err)
	}
	s.accessToken = token
	s.expiresAt = now.Add(s.tokenTTL)
	return token, nil
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token, err := s.token(false)
	if err != nil {
		return err
	}

	err = invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated {
			return err
		}
		if st.Message() != common.ErrTokenExpired.Error() {
			return err
		}

		// clock skew with the server; mint a fresh token and try once more
		token, err := s.token(true)
		if err != nil {
			return err
		}
		return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)

	}

	return nil
}

// NewGRPCClient prepares a connection to endpointURL acting as userID. The
// connection is established lazily on the first call.
func NewGRPCClient(endpointURL, userID, secretKey string, tokenTTL time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		userID:      userID,
		secret:      []byte(secretKey),
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewProvisioningClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, displayName string) (*Reply, error) {

	resp, err := s.client.Register(ctx, pb.NewRegisterRequest(email, displayName))
	if err != nil {
		return nil, s.mapError(err)
	}
	return replyFrom(resp), nil
}

func (s *GRPCClient) CreateFree(ctx context.Context, displayName string) (*Reply, error) {

	resp, err := s.client.CreateFree(ctx, pb.NewCreateFreeRequest(displayName))
	if err != nil {
		return nil, s.mapError(err)
	}
	return replyFrom(resp), nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func replyFrom(resp *structpb.Struct) *Reply {
	return &Reply{
		Ephemeral: pb.StringField(resp, pb.FieldEphemeral),
		Private:   pb.StringField(resp, pb.FieldPrivate),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	default:
		return &CommandError{Code: st.Code(), Message: st.Message()}
	}
}
