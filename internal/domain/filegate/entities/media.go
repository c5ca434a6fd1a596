// Package entities contains domain entities
package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind is the transport-native kind of a stored media item
type ItemKind string

// Supported media kinds
const (
	KindPhoto     ItemKind = "photo"
	KindVideo     ItemKind = "video"
	KindDocument  ItemKind = "document"
	KindAnimation ItemKind = "animation"
	KindVideoNote ItemKind = "video_note"
)

// ContentItem is one deliverable media item inside a bundle
type ContentItem struct {
	Kind    ItemKind `json:"type"`
	FileID  string   `json:"file_id"`
	Caption string   `json:"caption,omitempty"`
}

// ItemList is an ordered list of items, persisted as a JSON column
type ItemList []ContentItem

// Value implements driver.Valuer for gorm
func (l ItemList) Value() (driver.Value, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for gorm
func (l *ItemList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported item list source type %T", src)
	}
}

// ContentBundle is a named, ordered collection of media items
// deliverable as a unit. Immutable once saved except for explicit
// admin overwrite or delete.
type ContentBundle struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Items     ItemList  `json:"items" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName overrides the gorm table name
func (ContentBundle) TableName() string { return "media_bundles" }
