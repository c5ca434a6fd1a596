package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

// itemFromMessage extracts a storable content item from an incoming
// message. Photos come as size variants, the largest is kept.
func itemFromMessage(msg *models.Message) (entities.ContentItem, bool) {
	switch {
	case len(msg.Photo) > 0:
		return entities.ContentItem{
			Kind:    entities.KindPhoto,
			FileID:  msg.Photo[len(msg.Photo)-1].FileID,
			Caption: msg.Caption,
		}, true
	case msg.Video != nil:
		return entities.ContentItem{
			Kind:    entities.KindVideo,
			FileID:  msg.Video.FileID,
			Caption: msg.Caption,
		}, true
	// Animations also carry a document, so they are matched first
	case msg.Animation != nil:
		return entities.ContentItem{
			Kind:    entities.KindAnimation,
			FileID:  msg.Animation.FileID,
			Caption: msg.Caption,
		}, true
	case msg.Document != nil:
		return entities.ContentItem{
			Kind:    entities.KindDocument,
			FileID:  msg.Document.FileID,
			Caption: msg.Caption,
		}, true
	case msg.VideoNote != nil:
		return entities.ContentItem{
			Kind:   entities.KindVideoNote,
			FileID: msg.VideoNote.FileID,
		}, true
	default:
		return entities.ContentItem{}, false
	}
}
