// Package provisioning implements the free-server workflow: registering a
// chat-platform user with the panel and creating their single free server.
//
// The panel is called first and the local record written second, so a
// local record never exists without its remote object. A failed local
// commit leaves a remote orphan, which is reported and never deleted.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/cryptox"
	"github.com/dmitrijs2005/freepanel/internal/logging"
	"github.com/dmitrijs2005/freepanel/internal/panel"
	"github.com/dmitrijs2005/freepanel/internal/server/models"
	"github.com/dmitrijs2005/freepanel/internal/server/orphans"
)

// Operation names used in errors, logs and metrics.
const (
	OpRegister  = "register"
	OpProvision = "provision"
)

const (
	commitTimeout = 10 * time.Second
	reportTimeout = 30 * time.Second
)

// Store is the persistence the workflow relies on.
type Store interface {
	GetUserAccount(ctx context.Context, id string) (*models.UserAccount, error)
	CreateUserAccount(ctx context.Context, account *models.UserAccount) error
	GetServerRecord(ctx context.Context, id string) (*models.ServerRecord, error)
	CreateServerRecord(ctx context.Context, record *models.ServerRecord) error
}

// Recorder receives workflow outcomes.
type Recorder interface {
	ObserveOperation(operation, result string, elapsed time.Duration)
	SetNodeServers(node int64, count int)
}

// Credentials are returned once by Register and never stored.
type Credentials struct {
	Email    string
	Username string
	Password string
}

// Service runs the register and provision workflows. It serializes calls per
// platform user; calls for different users run concurrently.
type Service struct {
	store    Store
	panel    panel.API
	settings Settings

	log         logging.Logger
	metrics     Recorder
	orphans     orphans.Reporter
	genPassword func(length int) string
	now         func() time.Time
	locks       *keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRecorder sets the metrics sink for operation outcomes and node load.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithOrphanReporter sets where orphans are reported. The default logs them.
func WithOrphanReporter(r orphans.Reporter) Option {
	return func(s *Service) { s.orphans = r }
}

// WithPasswordGenerator replaces cryptox.GeneratePassword.
func WithPasswordGenerator(fn func(length int) string) Option {
	return func(s *Service) { s.genPassword = fn }
}

// WithClock replaces time.Now for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, api panel.API, settings Settings, opts ...Option) *Service {
	s := &Service{
		store:       store,
		panel:       api,
		settings:    settings.withDefaults(),
		log:         logging.Nop(),
		metrics:     nopRecorder{},
		genPassword: cryptox.GeneratePassword,
		now:         time.Now,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orphans == nil {
		s.orphans = orphans.NewLogReporter(s.log)
	}
	s.log = s.log.With("module", "provisioning")
	return s
}

// Username is the panel username derived from a platform user id.
func Username(platformUserID string) string {
	return common.UsernamePrefix + platformUserID
}

// Register creates a panel account for platformUserID and records it.
func (s *Service) Register(ctx context.Context, platformUserID, email, displayName string) (creds *Credentials, err error) {
	start := s.now()
	defer func() { s.finish(ctx, OpRegister, platformUserID, start, err) }()

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.ErrInvalidEmail
	}

	unlock, err := s.locks.Lock(ctx, platformUserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.store.GetUserAccount(ctx, platformUserID); err == nil {
		return nil, common.ErrAlreadyRegistered
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking registration: %w", err)
	}

	password := s.genPassword(s.settings.PasswordLength)
	username := Username(platformUserID)

	panelID, err := s.panel.CreateAccount(ctx, panel.AccountRequest{
		Email:     email,
		Username:  username,
		FirstName: displayOrUsername(displayName, username),
		LastName:  accountLastName,
		Password:  password,
	})
	if err != nil {
		return nil, s.remoteFailure(ctx, OpRegister, orphans.KindAccount, platformUserID, err)
	}

	account := &models.UserAccount{
		PlatformUserID:      platformUserID,
		Email:               email,
		PanelAccountID:      panelID,
		PasswordFingerprint: cryptox.Fingerprint(password),
		CreatedAt:           s.now().UTC(),
	}
	commitCtx, cancel := s.commitContext(ctx)
	defer cancel()
	if err := s.store.CreateUserAccount(commitCtx, account); err != nil {
		o := orphans.New(orphans.KindAccount, platformUserID, strconv.FormatInt(panelID, 10), err)
		s.reportOrphan(ctx, o)
		return nil, &ProvisioningFailed{Op: OpRegister, Cause: err, Orphan: &o}
	}

	return &Credentials{Email: email, Username: username, Password: password}, nil
}

// ProvisionServer creates the single free server of a registered user and
// returns its panel id.
func (s *Service) ProvisionServer(ctx context.Context, platformUserID, displayName string) (serverID string, err error) {
	start := s.now()
	defer func() { s.finish(ctx, OpProvision, platformUserID, start, err) }()

	unlock, err := s.locks.Lock(ctx, platformUserID)
	if err != nil {
		return "", err
	}
	defer unlock()

	account, err := s.store.GetUserAccount(ctx, platformUserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrNotRegistered
		}
		return "", fmt.Errorf("checking registration: %w", err)
	}

	if _, err := s.store.GetServerRecord(ctx, platformUserID); err == nil {
		return "", common.ErrAlreadyProvisioned
	} else if !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("checking existing server: %w", err)
	}

	if err := s.checkCapacity(ctx); err != nil {
		return "", err
	}

	allocationID, err := s.freeAllocation(ctx)
	if err != nil {
		return "", err
	}

	username := Username(platformUserID)
	serverID, err = s.panel.CreateServer(ctx, s.serverRequest(account.PanelAccountID, displayOrUsername(displayName, username), allocationID))
	if err != nil {
		return "", s.remoteFailure(ctx, OpProvision, orphans.KindServer, platformUserID, err)
	}

	record := &models.ServerRecord{
		PlatformUserID: platformUserID,
		PanelServerID:  serverID,
		CreatedAt:      s.now().UTC(),
	}
	commitCtx, cancel := s.commitContext(ctx)
	defer cancel()
	if err := s.store.CreateServerRecord(commitCtx, record); err != nil {
		o := orphans.New(orphans.KindServer, platformUserID, serverID, err)
		s.reportOrphan(ctx, o)
		return "", &ProvisioningFailed{Op: OpProvision, Cause: err, Orphan: &o}
	}

	return serverID, nil
}

// checkCapacity counts every server on the configured node. The count is
// advisory across users: two callers may both pass before either creates.
func (s *Service) checkCapacity(ctx context.Context) error {
	servers, err := s.panel.ListServers(ctx)
	if err != nil {
		return fmt.Errorf("checking node capacity: %w", err)
	}

	count := 0
	for _, srv := range servers {
		if srv.Node == s.settings.NodeID {
			count++
		}
	}
	s.metrics.SetNodeServers(s.settings.NodeID, count)

	if count >= s.settings.MaxServersPerNode {
		return common.ErrCapacityExceeded
	}
	return nil
}

// freeAllocation returns the first unassigned allocation in panel order.
func (s *Service) freeAllocation(ctx context.Context) (int64, error) {
	allocations, err := s.panel.ListNodeAllocations(ctx, s.settings.NodeID)
	if err != nil {
		return 0, fmt.Errorf("listing node allocations: %w", err)
	}
	for _, a := range allocations {
		if !a.Assigned {
			return a.ID, nil
		}
	}
	return 0, common.ErrNoFreeAllocation
}

func (s *Service) serverRequest(panelUserID int64, name string, allocationID int64) panel.ServerRequest {
	env := make(map[string]string, len(s.settings.Environment))
	for k, v := range s.settings.Environment {
		env[k] = v
	}

	return panel.ServerRequest{
		Name:          truncateRunes(name, s.settings.NameLimit),
		User:          panelUserID,
		Egg:           s.settings.EggID,
		DockerImage:   s.settings.DockerImage,
		Startup:       s.settings.StartupCommand,
		Limits:        s.settings.Limits,
		Environment:   env,
		Allocation:    panel.AllocationRef{Default: allocationID},
		FeatureLimits: s.settings.FeatureLimits,
	}
}

// commitContext detaches the local commit from the caller once the panel
// object exists. A cancelled request must not turn a success into an orphan.
func (s *Service) commitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
}

// remoteFailure wraps a failed panel create call. A 2xx whose body could not
// be read may still have created the object, so it is reported as an orphan
// with an unknown panel id.
func (s *Service) remoteFailure(ctx context.Context, op string, kind orphans.Kind, platformUserID string, err error) error {
	var panelErr *panel.PanelError
	if errors.As(err, &panelErr) && panelErr.Created() {
		o := orphans.New(kind, platformUserID, "", err)
		s.reportOrphan(ctx, o)
		return &ProvisioningFailed{Op: op, Cause: err, Orphan: &o}
	}
	return &ProvisioningFailed{Op: op, Cause: err}
}

func (s *Service) reportOrphan(ctx context.Context, o orphans.Orphan) {
	// the request may already be cancelled; the report must still go out
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	if err := s.orphans.Report(reportCtx, o); err != nil {
		s.log.Error(ctx, "orphan report failed",
			"orphan_id", o.ID.String(), "kind", string(o.Kind), "panel_id", o.PanelID, "error", err)
	}
}

func (s *Service) finish(ctx context.Context, op, platformUserID string, start time.Time, err error) {
	result := Outcome(err)
	s.metrics.ObserveOperation(op, result, s.now().Sub(start))

	log := s.log.With("operation", op, "platform_user_id", platformUserID, "result", result)
	switch result {
	case "ok":
		log.Info(ctx, "operation succeeded")
	case "panel_error", "orphaned", "error":
		log.Error(ctx, "operation failed", "error", err)
	default:
		log.Warn(ctx, "operation rejected", "reason", err.Error())
	}
}

// Outcome classifies a workflow error into a metrics label.
func Outcome(err error) string {
	var failed *ProvisioningFailed
	var panelErr *panel.PanelError

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &failed):
		if failed.Orphan != nil {
			return "orphaned"
		}
		return "panel_error"
	case errors.Is(err, common.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, common.ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, common.ErrAlreadyProvisioned):
		return "already_provisioned"
	case errors.Is(err, common.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, common.ErrNoFreeAllocation):
		return "no_free_allocation"
	case errors.Is(err, common.ErrInvalidEmail):
		return "invalid_email"
	case errors.As(err, &panelErr):
		return "panel_error"
	default:
		return "error"
	}
}

func displayOrUsername(displayName, username string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	return username
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}
func (nopRecorder) SetNodeServers(int64, int) {}
