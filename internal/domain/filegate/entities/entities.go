// Package entities contains domain entities
package entities

import "time"

// User represents a Telegram user known to the bot.
// Created on first observed interaction, never hard-deleted.
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Username string `json:"username"`
	Active   bool   `json:"active" gorm:"default:true"`
	Premium  bool   `json:"premium"`
	Banned   bool   `json:"banned"`
}

// TableName overrides the gorm table name
func (User) TableName() string { return "users" }

// AdminGrant represents a revocable admin grant.
// The owner is implicit and never stored here.
type AdminGrant struct {
	UserID    int64     `json:"userId" gorm:"primaryKey"`
	AddedBy   int64     `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName overrides the gorm table name
func (AdminGrant) TableName() string { return "admins" }

// GateChannel is one externally verifiable membership requirement.
// Uniqueness is the full (link, chat, label) tuple.
type GateChannel struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Link    string `json:"link" gorm:"uniqueIndex:idx_gate_tuple;not null"`
	ChatID  string `json:"chatId" gorm:"uniqueIndex:idx_gate_tuple;not null"`
	Label   string `json:"label" gorm:"uniqueIndex:idx_gate_tuple;not null"`
	Enabled bool   `json:"enabled" gorm:"default:true"`
}

// TableName overrides the gorm table name
func (GateChannel) TableName() string { return "force_join_channels" }

// Join request statuses
const (
	JoinStatusPending  = "pending"
	JoinStatusApproved = "approved"
	JoinStatusRejected = "rejected"
)

// JoinRequest tracks a pending external request to join a gate channel.
// At most one row exists per (chat, user); decisions are guarded by a
// conditional update on status=pending.
type JoinRequest struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ChatID    string     `json:"chatId" gorm:"uniqueIndex:idx_join_key;not null"`
	UserID    int64      `json:"userId" gorm:"uniqueIndex:idx_join_key;not null"`
	Username  string     `json:"username"`
	Status    string     `json:"status" gorm:"default:pending"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	DecidedBy *int64     `json:"decidedBy"`
	DecidedAt *time.Time `json:"decidedAt"`
}

// TableName overrides the gorm table name
func (JoinRequest) TableName() string { return "join_requests" }

// DownloadRecord is one append-only delivery log entry
type DownloadRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BundleID  string    `json:"bundleId" gorm:"index;not null"`
	UserID    int64     `json:"userId" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName overrides the gorm table name
func (DownloadRecord) TableName() string { return "downloads" }

// Setting is one operator-tunable key/value pair
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey"`
	Value string `json:"value"`
}

// TableName overrides the gorm table name
func (Setting) TableName() string { return "settings" }
