package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/freepanel/internal/client/client"
	"github.com/dmitrijs2005/freepanel/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.UserID, c.SecretKey, c.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient}, nil
}

func (a *App) Close() error {
	return a.client.Close()
}

func (a *App) getStatus() string {
	if a.config.DisplayName != "" {
		return fmt.Sprintf("(%s)", a.config.DisplayName)
	}
	return fmt.Sprintf("(%s)", a.config.UserID)
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, a.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

// Register links the configured user to a new panel account.
func (a *App) Register(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		printlnFn("Usage: register <email>")
		return errors.New("email is required")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	reply, err := a.client.Register(ctx, email, a.config.DisplayName)
	return a.show(reply, err)
}

// CreateFree provisions the configured user's free server.
func (a *App) CreateFree(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	reply, err := a.client.CreateFree(ctx, a.config.DisplayName)
	return a.show(reply, err)
}

func (a *App) show(reply *client.Reply, err error) error {
	if err != nil {
		var cmdErr *client.CommandError
		switch {
		case errors.As(err, &cmdErr):
			printlnFn(cmdErr.Message)
		case errors.Is(err, client.ErrUnauthorized):
			printlnFn("❌ Not authorized: check the shared secret.")
		default:
			printlnFn("❌ " + err.Error())
		}
		return err
	}

	printlnFn(reply.Ephemeral)
	if reply.Private != "" {
		printlnFn("--- direct message ---")
		printlnFn(reply.Private)
	}
	return nil
}
