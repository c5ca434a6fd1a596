package buissines

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
	"github.com/luffex/filegate/internal/domain/filegate/sessions"
)

type mockUsers struct {
	UpsertFn         func(ctx context.Context, id int64, username string) error
	GetFn            func(ctx context.Context, id int64) (*entities.User, error)
	SetPremiumFn     func(ctx context.Context, id int64, premium bool) error
	SetBannedFn      func(ctx context.Context, id int64, banned bool) error
	ListRecipientsFn func(ctx context.Context, premiumOnly bool) ([]int64, error)
	ListRecentFn     func(ctx context.Context, limit int) ([]entities.User, error)
	CountsFn         func(ctx context.Context) (int64, int64, int64, error)
}

func (m *mockUsers) Upsert(ctx context.Context, id int64, username string) error {
	if m.UpsertFn == nil {
		return nil
	}
	return m.UpsertFn(ctx, id, username)
}

func (m *mockUsers) Get(ctx context.Context, id int64) (*entities.User, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *mockUsers) SetPremium(ctx context.Context, id int64, premium bool) error {
	if m.SetPremiumFn == nil {
		return nil
	}
	return m.SetPremiumFn(ctx, id, premium)
}

func (m *mockUsers) SetBanned(ctx context.Context, id int64, banned bool) error {
	if m.SetBannedFn == nil {
		return nil
	}
	return m.SetBannedFn(ctx, id, banned)
}

func (m *mockUsers) ListRecipients(ctx context.Context, premiumOnly bool) ([]int64, error) {
	if m.ListRecipientsFn == nil {
		return nil, nil
	}
	return m.ListRecipientsFn(ctx, premiumOnly)
}

func (m *mockUsers) ListRecent(ctx context.Context, limit int) ([]entities.User, error) {
	if m.ListRecentFn == nil {
		return nil, nil
	}
	return m.ListRecentFn(ctx, limit)
}

func (m *mockUsers) Counts(ctx context.Context) (int64, int64, int64, error) {
	if m.CountsFn == nil {
		return 0, 0, 0, nil
	}
	return m.CountsFn(ctx)
}

type mockAdmins struct {
	AddFn    func(ctx context.Context, userID, addedBy int64) error
	RemoveFn func(ctx context.Context, userID int64) (bool, error)
	ExistsFn func(ctx context.Context, userID int64) (bool, error)
	ListFn   func(ctx context.Context) ([]int64, error)
}

func (m *mockAdmins) Add(ctx context.Context, userID, addedBy int64) error {
	if m.AddFn == nil {
		return nil
	}
	return m.AddFn(ctx, userID, addedBy)
}

func (m *mockAdmins) Remove(ctx context.Context, userID int64) (bool, error) {
	if m.RemoveFn == nil {
		return false, nil
	}
	return m.RemoveFn(ctx, userID)
}

func (m *mockAdmins) Exists(ctx context.Context, userID int64) (bool, error) {
	if m.ExistsFn == nil {
		return false, nil
	}
	return m.ExistsFn(ctx, userID)
}

func (m *mockAdmins) List(ctx context.Context) ([]int64, error) {
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(ctx)
}

type mockGates struct {
	AddFn         func(ctx context.Context, ch entities.GateChannel) error
	RemoveFn      func(ctx context.Context, link, chatID, label string) (bool, error)
	ListEnabledFn func(ctx context.Context) ([]entities.GateChannel, error)
}

func (m *mockGates) Add(ctx context.Context, ch entities.GateChannel) error {
	if m.AddFn == nil {
		return nil
	}
	return m.AddFn(ctx, ch)
}

func (m *mockGates) Remove(ctx context.Context, link, chatID, label string) (bool, error) {
	if m.RemoveFn == nil {
		return false, nil
	}
	return m.RemoveFn(ctx, link, chatID, label)
}

func (m *mockGates) ListEnabled(ctx context.Context) ([]entities.GateChannel, error) {
	if m.ListEnabledFn == nil {
		return nil, nil
	}
	return m.ListEnabledFn(ctx)
}

type mockJoins struct {
	UpsertPendingFn func(ctx context.Context, chatID string, userID int64, username string) error
	StatusFn        func(ctx context.Context, chatID string, userID int64) (string, error)
	DecideFn        func(ctx context.Context, chatID string, userID int64, status string, decidedBy int64) (bool, error)
}

func (m *mockJoins) UpsertPending(ctx context.Context, chatID string, userID int64, username string) error {
	if m.UpsertPendingFn == nil {
		return nil
	}
	return m.UpsertPendingFn(ctx, chatID, userID, username)
}

func (m *mockJoins) Status(ctx context.Context, chatID string, userID int64) (string, error) {
	if m.StatusFn == nil {
		return "", nil
	}
	return m.StatusFn(ctx, chatID, userID)
}

func (m *mockJoins) Decide(ctx context.Context, chatID string, userID int64, status string, decidedBy int64) (bool, error) {
	if m.DecideFn == nil {
		return false, nil
	}
	return m.DecideFn(ctx, chatID, userID, status, decidedBy)
}

type mockBundles struct {
	SaveFn   func(ctx context.Context, bundle *entities.ContentBundle) error
	GetFn    func(ctx context.Context, id string) (*entities.ContentBundle, error)
	DeleteFn func(ctx context.Context, id string) (bool, error)
}

func (m *mockBundles) Save(ctx context.Context, bundle *entities.ContentBundle) error {
	if m.SaveFn == nil {
		return nil
	}
	return m.SaveFn(ctx, bundle)
}

func (m *mockBundles) Get(ctx context.Context, id string) (*entities.ContentBundle, error) {
	if m.GetFn == nil {
		return nil, nil
	}
	return m.GetFn(ctx, id)
}

func (m *mockBundles) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFn == nil {
		return false, nil
	}
	return m.DeleteFn(ctx, id)
}

type mockDownloads struct {
	AppendFn        func(ctx context.Context, bundleID string, userID int64) error
	CountSinceFn    func(ctx context.Context, userID int64, since time.Time) (int64, error)
	CountByBundleFn func(ctx context.Context, bundleID string) (int64, error)
	TotalFn         func(ctx context.Context) (int64, error)
}

func (m *mockDownloads) Append(ctx context.Context, bundleID string, userID int64) error {
	if m.AppendFn == nil {
		return nil
	}
	return m.AppendFn(ctx, bundleID, userID)
}

func (m *mockDownloads) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	if m.CountSinceFn == nil {
		return 0, nil
	}
	return m.CountSinceFn(ctx, userID, since)
}

func (m *mockDownloads) CountByBundle(ctx context.Context, bundleID string) (int64, error) {
	if m.CountByBundleFn == nil {
		return 0, nil
	}
	return m.CountByBundleFn(ctx, bundleID)
}

func (m *mockDownloads) Total(ctx context.Context) (int64, error) {
	if m.TotalFn == nil {
		return 0, nil
	}
	return m.TotalFn(ctx)
}

// mockSettings is a map-backed settings repository
type mockSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMockSettings() *mockSettings {
	return &mockSettings{values: make(map[string]string)}
}

func (m *mockSettings) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *mockSettings) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *mockSettings) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// passthroughView reads settings without caching
type passthroughView struct {
	repo        deps.SettingsRepository
	invalidated []string
}

func (v *passthroughView) Get(ctx context.Context, key string) (string, error) {
	return v.repo.Get(ctx, key)
}

func (v *passthroughView) Invalidate(key string) {
	v.invalidated = append(v.invalidated, key)
}

// mockTransport records outbound calls and assigns message IDs
type mockTransport struct {
	mu         sync.Mutex
	nextID     int
	texts      []string
	items      []entities.ContentItem
	payloads   []int64
	edits      []string
	deleted    []dto.MessageRef
	approved   []int64
	declined   []int64
	SendItemFn func(ctx context.Context, chatID int64, item entities.ContentItem) (dto.MessageRef, error)
	PayloadErr func(chatID int64) error
	ApproveErr error
}

func (m *mockTransport) ref(chatID int64) dto.MessageRef {
	m.nextID++
	return dto.MessageRef{ChatID: chatID, MessageID: m.nextID}
}

func (m *mockTransport) SendText(_ context.Context, chatID int64, text string) (dto.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return m.ref(chatID), nil
}

func (m *mockTransport) SendLinkButton(_ context.Context, chatID int64, text, _, _ string) (dto.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return m.ref(chatID), nil
}

func (m *mockTransport) SendItem(ctx context.Context, chatID int64, item entities.ContentItem) (dto.MessageRef, error) {
	if m.SendItemFn != nil {
		return m.SendItemFn(ctx, chatID, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return m.ref(chatID), nil
}

func (m *mockTransport) SendPayload(_ context.Context, chatID int64, _ dto.BroadcastPayload) error {
	if m.PayloadErr != nil {
		if err := m.PayloadErr(chatID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, chatID)
	return nil
}

func (m *mockTransport) EditText(_ context.Context, _ dto.MessageRef, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, text)
	return nil
}

func (m *mockTransport) Delete(_ context.Context, ref dto.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *mockTransport) ApproveJoinRequest(_ context.Context, _ string, userID int64) error {
	if m.ApproveErr != nil {
		return m.ApproveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approved = append(m.approved, userID)
	return nil
}

func (m *mockTransport) DeclineJoinRequest(_ context.Context, _ string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.declined = append(m.declined, userID)
	return nil
}

func (m *mockTransport) BotUsername(context.Context) (string, error) {
	return "filegate_test_bot", nil
}

// mockOracle answers membership checks from a map and counts calls
type mockOracle struct {
	mu       sync.Mutex
	statuses map[string]string
	errs     map[string]error
	calls    []string
}

func (m *mockOracle) GetStatus(_ context.Context, chatID string, _ int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, chatID)
	if err := m.errs[chatID]; err != nil {
		return "", err
	}
	if status, ok := m.statuses[chatID]; ok {
		return status, nil
	}
	return "member", nil
}

// recordDeleter captures scheduled deletions
type recordDeleter struct {
	mu        sync.Mutex
	scheduled []dto.MessageRef
	delays    []time.Duration
}

func (d *recordDeleter) Schedule(ref dto.MessageRef, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduled = append(d.scheduled, ref)
	d.delays = append(d.delays, delay)
}

// fixedClock returns a constant time and skips sleeps
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time                           { return c.now }
func (c fixedClock) Sleep(_ context.Context, _ time.Duration) {}

// nopAudit drops audit events
type nopAudit struct{}

func (nopAudit) UploadCreated(context.Context, string, int64, int) error { return nil }
func (nopAudit) JoinRequestDecided(context.Context, string, int64, string, int64) error {
	return nil
}
func (nopAudit) BroadcastFinished(context.Context, dto.BroadcastReport) error { return nil }
func (nopAudit) DownloadLogged(context.Context, string, int64) error          { return nil }
func (nopAudit) Close() error                                                 { return nil }

// testEnv bundles the use case with all its mocks
type testEnv struct {
	uc        *UseCase
	users     *mockUsers
	admins    *mockAdmins
	gates     *mockGates
	joins     *mockJoins
	bundles   *mockBundles
	downloads *mockDownloads
	settings  *mockSettings
	view      *passthroughView
	transport *mockTransport
	oracle    *mockOracle
	deleter   *recordDeleter
	clock     fixedClock
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:     &mockUsers{},
		admins:    &mockAdmins{},
		gates:     &mockGates{},
		joins:     &mockJoins{},
		bundles:   &mockBundles{},
		downloads: &mockDownloads{},
		settings:  newMockSettings(),
		transport: &mockTransport{},
		oracle:    &mockOracle{statuses: map[string]string{}, errs: map[string]error{}},
		deleter:   &recordDeleter{},
		clock:     fixedClock{now: time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)},
	}
	env.view = &passthroughView{repo: env.settings}

	cfg := &config.GateConfig{
		OwnerID:       1000,
		QuotaTimezone: "UTC",
		DeleteDelay:   10 * time.Minute,
		BroadcastPace: time.Millisecond,
		SessionTTL:    30 * time.Minute,
	}

	store := sessions.NewStore(cfg.SessionTTL, env.clock, zerolog.Nop())

	env.uc = NewUseCase(
		cfg,
		zerolog.Nop(),
		env.users,
		env.admins,
		env.gates,
		env.joins,
		env.bundles,
		env.downloads,
		env.settings,
		env.view,
		store,
		env.deleter,
		env.clock,
		nopAudit{},
	)
	env.uc.AttachTransport(env.transport, env.oracle)

	return env
}
