// Package telegram contains the Telegram delivery layer for filegate
package telegram

import (
	"context"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
)

// Gateway adapts the Telegram bot API to the domain transport and
// membership oracle interfaces
type Gateway struct {
	bot    *tgbot.Bot
	cfg    *config.GateConfig
	logger zerolog.Logger

	mu       sync.Mutex
	username string
}

// NewGateway creates a transport gateway over the bot
func NewGateway(bot *tgbot.Bot, cfg *config.GateConfig, logger zerolog.Logger) *Gateway {
	return &Gateway{
		bot:    bot,
		cfg:    cfg,
		logger: logger,
	}
}

// SendText sends a plain text message
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string) (dto.MessageRef, error) {
	msg, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return dto.MessageRef{}, err
	}
	return dto.MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

// SendLinkButton sends a text message with a single URL button
func (g *Gateway) SendLinkButton(ctx context.Context, chatID int64, text, label, url string) (dto.MessageRef, error) {
	msg, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: label, URL: url}},
			},
		},
	})
	if err != nil {
		return dto.MessageRef{}, err
	}
	return dto.MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

// SendItem dispatches one content item by its kind. Stored file IDs are
// reused as-is; protect_content follows the operator configuration.
func (g *Gateway) SendItem(ctx context.Context, chatID int64, item entities.ContentItem) (dto.MessageRef, error) {
	var (
		msg *models.Message
		err error
	)

	switch item.Kind {
	case entities.KindPhoto:
		msg, err = g.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:         chatID,
			Photo:          &models.InputFileString{Data: item.FileID},
			Caption:        item.Caption,
			ProtectContent: g.cfg.ProtectContent,
		})
	case entities.KindVideo:
		msg, err = g.bot.SendVideo(ctx, &tgbot.SendVideoParams{
			ChatID:         chatID,
			Video:          &models.InputFileString{Data: item.FileID},
			Caption:        item.Caption,
			ProtectContent: g.cfg.ProtectContent,
		})
	case entities.KindDocument:
		msg, err = g.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
			ChatID:         chatID,
			Document:       &models.InputFileString{Data: item.FileID},
			Caption:        item.Caption,
			ProtectContent: g.cfg.ProtectContent,
		})
	case entities.KindAnimation:
		msg, err = g.bot.SendAnimation(ctx, &tgbot.SendAnimationParams{
			ChatID:         chatID,
			Animation:      &models.InputFileString{Data: item.FileID},
			Caption:        item.Caption,
			ProtectContent: g.cfg.ProtectContent,
		})
	case entities.KindVideoNote:
		msg, err = g.bot.SendVideoNote(ctx, &tgbot.SendVideoNoteParams{
			ChatID:         chatID,
			VideoNote:      &models.InputFileString{Data: item.FileID},
			ProtectContent: g.cfg.ProtectContent,
		})
	default:
		return dto.MessageRef{}, domerrors.ErrUnsupportedKind
	}

	if err != nil {
		return dto.MessageRef{}, err
	}
	return dto.MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

// SendPayload dispatches a broadcast payload to one recipient.
// Broadcast content is never protected.
func (g *Gateway) SendPayload(ctx context.Context, chatID int64, payload dto.BroadcastPayload) error {
	if payload.IsText() {
		_, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: chatID,
			Text:   payload.Text,
		})
		return err
	}

	var err error
	switch payload.Kind {
	case entities.KindPhoto:
		_, err = g.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: payload.FileID},
			Caption: payload.Caption,
		})
	case entities.KindVideo:
		_, err = g.bot.SendVideo(ctx, &tgbot.SendVideoParams{
			ChatID:  chatID,
			Video:   &models.InputFileString{Data: payload.FileID},
			Caption: payload.Caption,
		})
	case entities.KindDocument:
		_, err = g.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileString{Data: payload.FileID},
			Caption:  payload.Caption,
		})
	case entities.KindAnimation:
		_, err = g.bot.SendAnimation(ctx, &tgbot.SendAnimationParams{
			ChatID:    chatID,
			Animation: &models.InputFileString{Data: payload.FileID},
			Caption:   payload.Caption,
		})
	case entities.KindVideoNote:
		_, err = g.bot.SendVideoNote(ctx, &tgbot.SendVideoNoteParams{
			ChatID:    chatID,
			VideoNote: &models.InputFileString{Data: payload.FileID},
		})
	default:
		err = domerrors.ErrUnsupportedKind
	}
	return err
}

// EditText replaces the text of a previously sent message
func (g *Gateway) EditText(ctx context.Context, ref dto.MessageRef, text string) error {
	_, err := g.bot.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
		Text:      text,
	})
	return err
}

// Delete removes a previously sent message
func (g *Gateway) Delete(ctx context.Context, ref dto.MessageRef) error {
	_, err := g.bot.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
	})
	return err
}

// ApproveJoinRequest admits a user at the channel level
func (g *Gateway) ApproveJoinRequest(ctx context.Context, chatID string, userID int64) error {
	_, err := g.bot.ApproveChatJoinRequest(ctx, &tgbot.ApproveChatJoinRequestParams{
		ChatID: chatID,
		UserID: userID,
	})
	return err
}

// DeclineJoinRequest denies a user at the channel level
func (g *Gateway) DeclineJoinRequest(ctx context.Context, chatID string, userID int64) error {
	_, err := g.bot.DeclineChatJoinRequest(ctx, &tgbot.DeclineChatJoinRequestParams{
		ChatID: chatID,
		UserID: userID,
	})
	return err
}

// BotUsername returns the bot's own username, cached after first use
func (g *Gateway) BotUsername(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.username != "" {
		return g.username, nil
	}

	me, err := g.bot.GetMe(ctx)
	if err != nil {
		return "", err
	}
	g.username = me.Username
	return g.username, nil
}

// GetStatus implements the membership oracle over getChatMember.
// Restricted members who left keep a restricted record, so IsMember
// decides for them.
func (g *Gateway) GetStatus(ctx context.Context, chatID string, userID int64) (string, error) {
	member, err := g.bot.GetChatMember(ctx, &tgbot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		return "", err
	}

	switch member.Type {
	case models.ChatMemberTypeOwner:
		return "creator", nil
	case models.ChatMemberTypeAdministrator:
		return "administrator", nil
	case models.ChatMemberTypeMember:
		return "member", nil
	case models.ChatMemberTypeRestricted:
		if member.Restricted != nil && !member.Restricted.IsMember {
			return "left", nil
		}
		return "restricted", nil
	case models.ChatMemberTypeLeft:
		return "left", nil
	case models.ChatMemberTypeBanned:
		return "kicked", nil
	default:
		return "left", nil
	}
}
