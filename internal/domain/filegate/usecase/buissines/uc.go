// Package buissines contains the filegate business logic
package buissines

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/deps"
)

const bundleIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UseCase implements the access-gated delivery engine
type UseCase struct {
	cfg    *config.GateConfig
	logger zerolog.Logger

	users     deps.UserRepository
	admins    deps.AdminRepository
	gates     deps.GateChannelRepository
	joins     deps.JoinRequestRepository
	bundles   deps.BundleRepository
	downloads deps.DownloadRepository
	settings  deps.SettingsRepository
	view      deps.SettingsReader
	sessions  deps.SessionStore
	deleter   deps.MessageDeleter
	clock     deps.Clock
	audit     deps.AuditProducer

	quotaLoc *time.Location

	// transport and oracle are attached after construction because the
	// delivery layer depends on the use case
	mu        sync.RWMutex
	transport deps.Transport
	oracle    deps.MembershipOracle
}

// NewUseCase creates the delivery engine use case
func NewUseCase(
	cfg *config.GateConfig,
	logger zerolog.Logger,
	users deps.UserRepository,
	admins deps.AdminRepository,
	gates deps.GateChannelRepository,
	joins deps.JoinRequestRepository,
	bundles deps.BundleRepository,
	downloads deps.DownloadRepository,
	settings deps.SettingsRepository,
	view deps.SettingsReader,
	sessions deps.SessionStore,
	deleter deps.MessageDeleter,
	clock deps.Clock,
	audit deps.AuditProducer,
) *UseCase {
	loc, err := time.LoadLocation(cfg.QuotaTimezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.QuotaTimezone).Msg("Falling back to UTC for quota accounting")
		loc = time.UTC
	}

	return &UseCase{
		cfg:       cfg,
		logger:    logger,
		users:     users,
		admins:    admins,
		gates:     gates,
		joins:     joins,
		bundles:   bundles,
		downloads: downloads,
		settings:  settings,
		view:      view,
		sessions:  sessions,
		deleter:   deleter,
		clock:     clock,
		audit:     audit,
		quotaLoc:  loc,
	}
}

// AttachTransport wires the outbound transport and membership oracle
func (uc *UseCase) AttachTransport(t deps.Transport, o deps.MembershipOracle) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.transport = t
	uc.oracle = o
}

// Transport returns the attached transport
func (uc *UseCase) Transport() deps.Transport {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.transport
}

// Oracle returns the attached membership oracle
func (uc *UseCase) Oracle() deps.MembershipOracle {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.oracle
}

// Sessions exposes the session store to the delivery layer
func (uc *UseCase) Sessions() deps.SessionStore {
	return uc.sessions
}

// newBundleID generates a 12-character alphanumeric bundle identifier
func newBundleID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate bundle id: %w", err)
	}
	for i, b := range buf {
		buf[i] = bundleIDAlphabet[int(b)%len(bundleIDAlphabet)]
	}
	return string(buf), nil
}
