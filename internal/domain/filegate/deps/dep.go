// Package deps contains interface definitions for the filegate domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

// Transport defines the outbound messaging operations the domain needs.
// Implemented by the Telegram delivery layer; this interface breaks the
// cyclic dependency between UseCase and the handlers.
type Transport interface {
	// SendText sends a plain text message and returns its reference
	SendText(ctx context.Context, chatID int64, text string) (dto.MessageRef, error)

	// SendLinkButton sends a text message with a single URL button attached
	SendLinkButton(ctx context.Context, chatID int64, text, label, url string) (dto.MessageRef, error)

	// SendItem dispatches one content item by its kind
	SendItem(ctx context.Context, chatID int64, item entities.ContentItem) (dto.MessageRef, error)

	// SendPayload dispatches a broadcast payload to one recipient
	SendPayload(ctx context.Context, chatID int64, payload dto.BroadcastPayload) error

	// EditText replaces the text of a previously sent message
	EditText(ctx context.Context, ref dto.MessageRef, text string) error

	// Delete removes a previously sent message
	Delete(ctx context.Context, ref dto.MessageRef) error

	// ApproveJoinRequest admits a user at the group level
	ApproveJoinRequest(ctx context.Context, chatID string, userID int64) error

	// DeclineJoinRequest denies a user at the group level
	DeclineJoinRequest(ctx context.Context, chatID string, userID int64) error

	// BotUsername returns the bot's own username for share links
	BotUsername(ctx context.Context) (string, error)
}

// MembershipOracle reports a user's membership status in a gate channel.
// Errors are treated by callers as "not a member".
type MembershipOracle interface {
	// GetStatus returns the transport-native status string for (chat, user)
	GetStatus(ctx context.Context, chatID string, userID int64) (string, error)
}

// MessageDeleter schedules deferred self-deletion of dispatched messages
type MessageDeleter interface {
	// Schedule registers one fire-and-forget deletion after delay
	Schedule(ref dto.MessageRef, delay time.Duration)
}

// Clock abstracts time for deterministic testing
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// Sleep blocks for d or until ctx is done
	Sleep(ctx context.Context, d time.Duration)
}

// UserRepository defines user record persistence
type UserRepository interface {
	// Upsert creates the user on first contact or refreshes username/active
	Upsert(ctx context.Context, id int64, username string) error

	// Get returns the user or nil when unknown
	Get(ctx context.Context, id int64) (*entities.User, error)

	// SetPremium flips the premium flag, creating the record if missing
	SetPremium(ctx context.Context, id int64, premium bool) error

	// SetBanned flips the banned flag, creating the record if missing
	SetBanned(ctx context.Context, id int64, banned bool) error

	// ListRecipients returns non-banned user IDs, optionally premium-only
	ListRecipients(ctx context.Context, premiumOnly bool) ([]int64, error)

	// ListRecent returns the most recently seen users
	ListRecent(ctx context.Context, limit int) ([]entities.User, error)

	// Counts returns total/premium/banned user counts
	Counts(ctx context.Context) (total, premium, banned int64, err error)
}

// AdminRepository defines admin grant persistence
type AdminRepository interface {
	// Add upserts a revocable admin grant
	Add(ctx context.Context, userID, addedBy int64) error

	// Remove revokes a grant; false when no grant existed
	Remove(ctx context.Context, userID int64) (bool, error)

	// Exists reports whether a grant exists
	Exists(ctx context.Context, userID int64) (bool, error)

	// List returns all granted admin IDs
	List(ctx context.Context) ([]int64, error)
}

// GateChannelRepository defines gate channel persistence
type GateChannelRepository interface {
	// Add upserts a gate channel tuple and re-enables it
	Add(ctx context.Context, ch entities.GateChannel) error

	// Remove deletes an exact tuple; false when not found
	Remove(ctx context.Context, link, chatID, label string) (bool, error)

	// ListEnabled returns enabled channels in insertion order
	ListEnabled(ctx context.Context) ([]entities.GateChannel, error)
}

// JoinRequestRepository defines join request ledger persistence
type JoinRequestRepository interface {
	// UpsertPending records a pending request, refreshing username and
	// timestamp when one is already pending
	UpsertPending(ctx context.Context, chatID string, userID int64, username string) error

	// Status returns the current status or "" when no record exists
	Status(ctx context.Context, chatID string, userID int64) (string, error)

	// Decide applies a decision only while status is still pending;
	// applied=false means the request was already decided or never existed
	Decide(ctx context.Context, chatID string, userID int64, status string, decidedBy int64) (bool, error)
}

// BundleRepository defines content bundle persistence
type BundleRepository interface {
	// Save upserts a bundle with its ordered items
	Save(ctx context.Context, bundle *entities.ContentBundle) error

	// Get resolves a bundle or returns nil when absent
	Get(ctx context.Context, id string) (*entities.ContentBundle, error)

	// Delete removes a bundle; false when not found
	Delete(ctx context.Context, id string) (bool, error)
}

// DownloadRepository defines the append-only download log
type DownloadRepository interface {
	// Append logs one delivery
	Append(ctx context.Context, bundleID string, userID int64) error

	// CountSince counts a user's downloads at or after the given instant
	CountSince(ctx context.Context, userID int64, since time.Time) (int64, error)

	// CountByBundle counts deliveries of one bundle
	CountByBundle(ctx context.Context, bundleID string) (int64, error)

	// Total counts all deliveries
	Total(ctx context.Context) (int64, error)
}

// SettingsRepository defines setting persistence
type SettingsRepository interface {
	// Get returns the value or "" when unset
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a value
	Set(ctx context.Context, key, value string) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error
}

// SettingsReader is the read-through cached view over settings.
// Writers must call Invalidate(key) synchronously after every write.
type SettingsReader interface {
	// Get returns the cached value, falling back to the repository
	Get(ctx context.Context, key string) (string, error)

	// Invalidate drops a key from the cache
	Invalidate(key string)
}

// SessionStore holds per-user transient interaction state
type SessionStore interface {
	// BeginUpload opens a fresh upload session, silently discarding any
	// unfinished prior buffer
	BeginUpload(userID int64, bundleID string)

	// AppendUpload appends one item to the open session; ok=false when
	// no session is open
	AppendUpload(userID int64, item entities.ContentItem) (count int, ok bool)

	// TakeUpload closes the session and returns its buffer; ok=false when
	// no session is open
	TakeUpload(userID int64) (bundleID string, items []entities.ContentItem, ok bool)

	// SetAwaitingBroadcast marks the user as capturing broadcast content
	// for the given target, or clears the mark
	SetAwaitingBroadcast(userID int64, target string, awaiting bool)

	// AwaitingBroadcast returns the capture target when marked
	AwaitingBroadcast(userID int64) (target string, ok bool)

	// SetBroadcastDraft stores a broadcast awaiting confirmation
	SetBroadcastDraft(userID int64, draft *dto.BroadcastDraft)

	// BroadcastDraft returns the stored draft when present
	BroadcastDraft(userID int64) (*dto.BroadcastDraft, bool)

	// ClearBroadcast drops draft and capture state
	ClearBroadcast(userID int64)

	// SetAwaitingFileID marks the user as inspecting file IDs (/getid)
	SetAwaitingFileID(userID int64, awaiting bool)

	// AwaitingFileID reports and clears the /getid mark
	AwaitingFileID(userID int64) bool
}

// AuditProducer emits domain audit events to the event stream.
// A no-op implementation is used when no brokers are configured.
type AuditProducer interface {
	// UploadCreated reports a persisted bundle
	UploadCreated(ctx context.Context, bundleID string, userID int64, itemCount int) error

	// JoinRequestDecided reports an applied ledger decision
	JoinRequestDecided(ctx context.Context, chatID string, userID int64, status string, decidedBy int64) error

	// BroadcastFinished reports final fan-out totals
	BroadcastFinished(ctx context.Context, report dto.BroadcastReport) error

	// DownloadLogged reports one delivery
	DownloadLogged(ctx context.Context, bundleID string, userID int64) error

	// Close flushes and closes the producer
	Close() error
}
