// Package dto contains data transfer objects for the filegate domain
package dto

import (
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

// MessageRef identifies one dispatched transport message, usable later
// for deletion or markup edits.
type MessageRef struct {
	ChatID    int64 `json:"chatId"`
	MessageID int   `json:"messageId"`
}

// GateResult is the outcome of one gate evaluation
type GateResult struct {
	Passed  bool                   `json:"passed"`
	Missing []entities.GateChannel `json:"missing"`
	Pending bool                   `json:"pending"`
}

// BroadcastPayload describes one prepared fan-out payload.
// Text payloads carry Text; media payloads carry Kind+FileID.
type BroadcastPayload struct {
	Kind    entities.ItemKind `json:"kind"`
	FileID  string            `json:"fileId,omitempty"`
	Caption string            `json:"caption,omitempty"`
	Text    string            `json:"text,omitempty"`
	Target  string            `json:"target"`
}

// IsText reports whether the payload is a plain text announcement
func (p BroadcastPayload) IsText() bool { return p.Kind == "" }

// BroadcastDraft is a broadcast awaiting confirmation by the admin
// who prepared it.
type BroadcastDraft struct {
	Payload    BroadcastPayload `json:"payload"`
	PreviewRef MessageRef       `json:"previewRef"`
}

// BroadcastReport carries final fan-out totals
type BroadcastReport struct {
	Target    string `json:"target"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// DeliveryReport summarizes one completed delivery
type DeliveryReport struct {
	BundleID   string `json:"bundleId"`
	Dispatched int    `json:"dispatched"`
	Scheduled  int    `json:"scheduled"`
}

// Profile is the per-user view returned by /profile
type Profile struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	Premium  bool   `json:"premium"`
	Banned   bool   `json:"banned"`
}

// Stats is the aggregate view returned by /stats
type Stats struct {
	TotalUsers   int64 `json:"totalUsers"`
	PremiumUsers int64 `json:"premiumUsers"`
	BannedUsers  int64 `json:"bannedUsers"`
	Downloads    int64 `json:"downloads"`
}
