package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/auth"
	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/logging"
	pb "github.com/dmitrijs2005/freepanel/internal/proto"
	"github.com/dmitrijs2005/freepanel/internal/server/provisioning"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const (
	testSecret = "secret"
	testLink   = "https://panel.example/"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeProvisioner struct {
	mu sync.Mutex

	creds        *provisioning.Credentials
	registerErr  error
	serverID     string
	provisionErr error

	calls []string
}

func (f *fakeProvisioner) Register(_ context.Context, platformUserID, email, displayName string) (*provisioning.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "register:"+platformUserID+":"+email+":"+displayName)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.creds, nil
}

func (f *fakeProvisioner) ProvisionServer(_ context.Context, platformUserID, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "provision:"+platformUserID+":"+displayName)
	if f.provisionErr != nil {
		return "", f.provisionErr
	}
	return f.serverID, nil
}

func (f *fakeProvisioner) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// startBufconn serves s over an in-memory listener and returns a client.
func startBufconn(t *testing.T, s *GRPCServer) pb.ProvisioningClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := s.newServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return pb.NewProvisioningClient(conn)
}

func authed(t *testing.T, userID string) context.Context {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewOutgoingContext(context.Background(), md)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, &fakeProvisioner{}, testLink, testSecret, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, &fakeProvisioner{}, testLink, testSecret, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

func TestBufconn_RegisterAndCreateFree(t *testing.T) {
	fake := &fakeProvisioner{
		creds:    &provisioning.Credentials{Email: "alice@example.com", Username: "user_42", Password: "pw123456789A"},
		serverID: "1a2b3c4d",
	}
	client := startBufconn(t, NewGRPCServer("bufnet", nopLogger{}, fake, testLink, testSecret, time.Second))
	ctx := authed(t, "42")

	reply, err := client.Register(ctx, pb.NewRegisterRequest("alice@example.com", "Alice"))
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if got := pb.StringField(reply, pb.FieldEphemeral); got != msgRegistered {
		t.Fatalf("ephemeral = %q", got)
	}
	wantDM := "✅ Registered!\nPanel: https://panel.example/\nEmail: `alice@example.com`\nPassword: `pw123456789A`"
	if got := pb.StringField(reply, pb.FieldPrivate); got != wantDM {
		t.Fatalf("private = %q, want %q", got, wantDM)
	}

	reply, err = client.CreateFree(ctx, pb.NewCreateFreeRequest("Alice"))
	if err != nil {
		t.Fatalf("CreateFree error: %v", err)
	}
	if got := pb.StringField(reply, pb.FieldEphemeral); got != msgServerCreated {
		t.Fatalf("ephemeral = %q", got)
	}
	wantDM = "✅ Your free server has been created!\nPanel: https://panel.example/\nServer ID: `1a2b3c4d`"
	if got := pb.StringField(reply, pb.FieldPrivate); got != wantDM {
		t.Fatalf("private = %q, want %q", got, wantDM)
	}

	calls := fake.recorded()
	want := []string{"register:42:alice@example.com:Alice", "provision:42:Alice"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestBufconn_RequiresToken(t *testing.T) {
	fake := &fakeProvisioner{}
	client := startBufconn(t, NewGRPCServer("bufnet", nopLogger{}, fake, testLink, testSecret, time.Second))

	_, err := client.CreateFree(context.Background(), pb.NewCreateFreeRequest("x"))
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	if len(fake.recorded()) != 0 {
		t.Fatal("workflow must not run without a token")
	}
}

func TestBufconn_CooldownRejectsSecondCall(t *testing.T) {
	fake := &fakeProvisioner{serverID: "abc"}
	client := startBufconn(t, NewGRPCServer("bufnet", nopLogger{}, fake, testLink, testSecret, time.Minute))
	ctx := authed(t, "7")

	if _, err := client.CreateFree(ctx, pb.NewCreateFreeRequest("")); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	_, err := client.CreateFree(ctx, pb.NewCreateFreeRequest(""))
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}

	// other users and other commands have their own budget
	if _, err := client.CreateFree(authed(t, "8"), pb.NewCreateFreeRequest("")); err != nil {
		t.Fatalf("other user error: %v", err)
	}
	fake.registerErr = common.ErrAlreadyRegistered
	_, err = client.Register(ctx, pb.NewRegisterRequest("a@b.c", ""))
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists from Register, got %v", err)
	}

	if n := len(fake.recorded()); n != 3 {
		t.Fatalf("workflow calls = %d, want 3", n)
	}
}
