package provisioning

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/cryptox"
	"github.com/dmitrijs2005/freepanel/internal/panel"
	"github.com/dmitrijs2005/freepanel/internal/server/models"
	"github.com/dmitrijs2005/freepanel/internal/server/orphans"
)

type memStore struct {
	mu       sync.Mutex
	accounts map[string]models.UserAccount
	servers  map[string]models.ServerRecord

	createAccountErr error
	createServerErr  error
}

func newMemStore() *memStore {
	return &memStore{accounts: map[string]models.UserAccount{}, servers: map[string]models.ServerRecord{}}
}

func (m *memStore) GetUserAccount(_ context.Context, id string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (m *memStore) CreateUserAccount(ctx context.Context, a *models.UserAccount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createAccountErr != nil {
		return m.createAccountErr
	}
	if _, ok := m.accounts[a.PlatformUserID]; ok {
		return common.ErrDuplicateUser
	}
	m.accounts[a.PlatformUserID] = *a
	return nil
}

func (m *memStore) GetServerRecord(_ context.Context, id string) (*models.ServerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.servers[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (m *memStore) CreateServerRecord(ctx context.Context, r *models.ServerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createServerErr != nil {
		return m.createServerErr
	}
	if _, ok := m.accounts[r.PlatformUserID]; !ok {
		return common.ErrNotRegistered
	}
	if _, ok := m.servers[r.PlatformUserID]; ok {
		return common.ErrDuplicateServer
	}
	m.servers[r.PlatformUserID] = *r
	return nil
}

func (m *memStore) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), len(m.servers)
}

type fakePanel struct {
	mu sync.Mutex

	nextAccountID int64
	servers       []panel.Server
	allocations   []panel.Allocation
	serverID      string

	createAccountErr error
	listServersErr   error
	listAllocErr     error
	createServerErr  error

	// createDelay widens race windows in concurrency tests.
	createDelay time.Duration
	// afterCreate runs once a create call has succeeded on the panel side.
	afterCreate func()

	accountReqs []panel.AccountRequest
	serverReqs  []panel.ServerRequest
	listCalls   int
}

func (f *fakePanel) CreateAccount(_ context.Context, req panel.AccountRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountReqs = append(f.accountReqs, req)
	if f.createAccountErr != nil {
		return 0, f.createAccountErr
	}
	f.nextAccountID++
	if f.afterCreate != nil {
		f.afterCreate()
	}
	return f.nextAccountID, nil
}

func (f *fakePanel) ListServers(context.Context) ([]panel.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listServersErr != nil {
		return nil, f.listServersErr
	}
	return append([]panel.Server(nil), f.servers...), nil
}

func (f *fakePanel) ListNodeAllocations(context.Context, int64) ([]panel.Allocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listAllocErr != nil {
		return nil, f.listAllocErr
	}
	return append([]panel.Allocation(nil), f.allocations...), nil
}

func (f *fakePanel) CreateServer(_ context.Context, req panel.ServerRequest) (string, error) {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serverReqs = append(f.serverReqs, req)
	if f.createServerErr != nil {
		return "", f.createServerErr
	}
	if f.afterCreate != nil {
		f.afterCreate()
	}
	return f.serverID, nil
}

func (f *fakePanel) createServerCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.serverReqs)
}

type recordingReporter struct {
	mu  sync.Mutex
	got []orphans.Orphan
}

func (r *recordingReporter) Report(_ context.Context, o orphans.Orphan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, o)
	return nil
}

type recordingRecorder struct {
	mu      sync.Mutex
	results []string
	node    map[int64]int
}

func (r *recordingRecorder) ObserveOperation(op, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, op+":"+result)
}

func (r *recordingRecorder) SetNodeServers(node int64, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.node == nil {
		r.node = map[int64]int{}
	}
	r.node[node] = count
}

func accountFor(id string) *models.UserAccount {
	return &models.UserAccount{
		PlatformUserID:      id,
		Email:               id + "@example.com",
		PanelAccountID:      42,
		PasswordFingerprint: cryptox.Fingerprint("password"),
	}
}
