package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/luffex/filegate/config"
	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
	"github.com/luffex/filegate/internal/domain/filegate/usecase/buissines"
	"github.com/luffex/filegate/pkg/smallcaps"
)

// Handlers routes Telegram updates into the use case
type Handlers struct {
	uc     *buissines.UseCase
	gw     *Gateway
	cfg    *config.GateConfig
	logger zerolog.Logger
}

// NewHandlers creates the update handlers
func NewHandlers(uc *buissines.UseCase, gw *Gateway, cfg *config.GateConfig, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		gw:     gw,
		cfg:    cfg,
		logger: logger,
	}
}

// reply sends a plain text response, logging failures
func (h *Handlers) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.gw.SendText(ctx, chatID, text); err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// fail sends the generic failure text
func (h *Handlers) fail(ctx context.Context, chatID int64) {
	h.reply(ctx, chatID, textFailure)
}

// admitUser registers the user and rejects banned ones. Returns false
// when the update must not proceed.
func (h *Handlers) admitUser(ctx context.Context, userID int64, username string, chatID int64) bool {
	if err := h.uc.RegisterUser(ctx, userID, username); err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to register user")
	}

	banned, err := h.uc.IsBanned(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Ban check failed")
		h.fail(ctx, chatID)
		return false
	}
	if banned {
		h.reply(ctx, chatID, textBanned)
		return false
	}
	return true
}

// passGate evaluates the membership gate and renders the join or
// pending screen on failure. Returns true when the user may proceed.
func (h *Handlers) passGate(ctx context.Context, userID, chatID int64, bundleID string) bool {
	result, err := h.uc.EvaluateGate(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Gate evaluation failed")
		h.fail(ctx, chatID)
		return false
	}
	if result.Passed {
		return true
	}

	if result.Pending {
		h.reply(ctx, chatID, textPending)
		return false
	}

	_, err = h.gw.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        textJoinRequired,
		ReplyMarkup: joinKeyboard(result.Missing, bundleID),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send join screen")
	}
	return false
}

// HandleStart serves /start, with an optional bundle deep link payload
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID, chatID := msg.From.ID, msg.Chat.ID

	if !h.admitUser(ctx, userID, msg.From.Username, chatID) {
		return
	}

	payload := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/start"))

	if !h.passGate(ctx, userID, chatID, payload) {
		return
	}

	if payload != "" {
		h.deliver(ctx, chatID, userID, payload)
		return
	}

	h.sendStartScreen(ctx, chatID, userID)
}

// sendStartScreen renders the welcome screen, with the configured photo
// when one is set
func (h *Handlers) sendStartScreen(ctx context.Context, chatID, userID int64) {
	uploader, err := h.uc.CanUpload(ctx, userID)
	if err != nil {
		uploader = false
	}
	keyboard := startKeyboard(uploader)

	photo, err := h.uc.StartPhoto(ctx)
	if err == nil && photo != "" {
		_, err = h.gw.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: photo},
			Caption:     textStart,
			ReplyMarkup: keyboard,
		})
		if err == nil {
			return
		}
		h.logger.Warn().Err(err).Msg("Failed to send start photo, falling back to text")
	}

	_, err = h.gw.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        textStart,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send start screen")
	}
}

// deliver runs the delivery pipeline and translates its errors into
// user-facing texts
func (h *Handlers) deliver(ctx context.Context, chatID, userID int64, bundleID string) {
	_, err := h.uc.Deliver(ctx, chatID, userID, bundleID)
	switch {
	case err == nil:
	case errors.Is(err, domerrors.ErrBundleNotFound):
		h.reply(ctx, chatID, textExpired)
	case errors.Is(err, domerrors.ErrQuotaExceeded):
		h.reply(ctx, chatID, textQuota)
	default:
		h.logger.Error().Err(err).Str("bundle_id", bundleID).Msg("Delivery failed")
		h.fail(ctx, chatID)
	}
}

// HandleAbout serves /about
func (h *Handlers) HandleAbout(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	_, err := h.gw.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        textAbout,
		ReplyMarkup: closeKeyboard(),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send about screen")
	}
}

// HandleCredits serves /credits
func (h *Handlers) HandleCredits(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, update.Message.Chat.ID, textCredits)
}

// HandleProfile serves /profile
func (h *Handlers) HandleProfile(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	profile, err := h.uc.Profile(ctx, msg.From.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Profile lookup failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}

	role := smallcaps.Convert("user")
	switch {
	case h.uc.IsOwner(profile.UserID):
		role = smallcaps.Convert("owner")
	case profile.Admin:
		role = smallcaps.Convert("admin")
	case profile.Premium:
		role = smallcaps.Convert("premium")
	}

	text := fmt.Sprintf("👤 %s\n\n🆔 %d\n📛 @%s\n🎖 %s",
		smallcaps.Convert("Your profile"), profile.UserID, profile.Username, role)
	h.reply(ctx, msg.Chat.ID, text)
}

// HandleRequest forwards /request <msg> to the owner
func (h *Handlers) HandleRequest(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	body := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/request"))
	if body == "" {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /request <message>")
		return
	}

	note := fmt.Sprintf("📨 %s\n👤 @%s (%d)\n\n%s",
		smallcaps.Convert("User request"), msg.From.Username, msg.From.ID, body)
	if _, err := h.gw.SendText(ctx, h.cfg.OwnerID, note); err != nil {
		h.logger.Error().Err(err).Msg("Failed to forward user request")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	h.reply(ctx, msg.Chat.ID, "✅ "+smallcaps.Convert("Your request was sent."))
}

// HandleGiveFont serves /givefont with usage help and a sample
func (h *Handlers) HandleGiveFont(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	text := smallcaps.Convert("Send /getfont followed by your text to stylize it.") +
		"\n\n" + smallcaps.Convert("Example: the quick brown fox")
	h.reply(ctx, update.Message.Chat.ID, text)
}

// HandleGetFont serves /getfont <text>
func (h *Handlers) HandleGetFont(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	text := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/getfont"))
	if text == "" {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /getfont <text>")
		return
	}
	h.reply(ctx, msg.Chat.ID, smallcaps.Convert(text))
}

// HandleGetID arms the one-shot file ID inspector
func (h *Handlers) HandleGetID(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	h.uc.Sessions().SetAwaitingFileID(msg.From.ID, true)
	h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Send me any media and I will reply with its file ID."))
}

// HandleContent is the catch-all for non-command messages: the upload
// sentinel, broadcast capture, file ID inspection and upload buffering.
func (h *Handlers) HandleContent(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID, chatID := msg.From.ID, msg.Chat.ID

	// Sentinel closes an open upload session
	if strings.TrimSpace(msg.Text) == consts.UploadSentinel {
		h.finalizeUpload(ctx, chatID, userID)
		return
	}

	// One-shot file ID inspection
	if item, ok := itemFromMessage(msg); ok && h.uc.Sessions().AwaitingFileID(userID) {
		h.reply(ctx, chatID, fmt.Sprintf("%s: %s\n\n%s\n%s",
			smallcaps.Convert("Kind"), item.Kind, smallcaps.Convert("File ID:"), item.FileID))
		return
	}

	// Broadcast content capture
	if target, ok := h.uc.Sessions().AwaitingBroadcast(userID); ok {
		h.captureBroadcast(ctx, msg, userID, target)
		return
	}

	// Upload buffering
	if item, ok := itemFromMessage(msg); ok {
		count, err := h.uc.AppendUpload(userID, item)
		if err != nil {
			// No open session, the media is simply ignored
			return
		}
		h.reply(ctx, chatID, fmt.Sprintf("📥 %s %d\n%s %s",
			smallcaps.Convert("Added item"), count,
			smallcaps.Convert("Send"), consts.UploadSentinel+" "+smallcaps.Convert("when done.")))
	}
}

// finalizeUpload closes the session and replies with the share link
func (h *Handlers) finalizeUpload(ctx context.Context, chatID, userID int64) {
	bundleID, link, count, err := h.uc.FinalizeUpload(ctx, userID)
	switch {
	case errors.Is(err, domerrors.ErrNoSession):
		h.reply(ctx, chatID, smallcaps.Convert("No open upload session. Use /upload first."))
		return
	case errors.Is(err, domerrors.ErrEmptySession):
		h.reply(ctx, chatID, smallcaps.Convert("Upload closed, no media was added."))
		return
	case err != nil:
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Upload finalization failed")
		h.fail(ctx, chatID)
		return
	}

	text := fmt.Sprintf("✅ %s\n\n📦 %s\n🗂 %d\n🔗 %s",
		smallcaps.Convert("Bundle saved"), bundleID, count, link)
	h.reply(ctx, chatID, text)
}

// captureBroadcast turns the captured message into a draft and shows
// the confirmation preview
func (h *Handlers) captureBroadcast(ctx context.Context, msg *models.Message, userID int64, target string) {
	payload := dto.BroadcastPayload{Target: target}
	if item, ok := itemFromMessage(msg); ok {
		payload.Kind = item.Kind
		payload.FileID = item.FileID
		payload.Caption = item.Caption
	} else if strings.TrimSpace(msg.Text) != "" {
		payload.Text = msg.Text
	} else {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Unsupported broadcast content. Send text or media."))
		return
	}

	h.uc.Sessions().SetAwaitingBroadcast(userID, "", false)
	h.showBroadcastPreview(ctx, msg.Chat.ID, userID, payload)
}

// broadcastTextPayload wraps inline command text as a broadcast payload
func broadcastTextPayload(text, target string) dto.BroadcastPayload {
	return dto.BroadcastPayload{Text: text, Target: target}
}

// showBroadcastPreview stores the draft and asks for confirmation
func (h *Handlers) showBroadcastPreview(ctx context.Context, chatID, adminID int64, payload dto.BroadcastPayload) {
	kind := "text"
	if !payload.IsText() {
		kind = string(payload.Kind)
	}

	text := fmt.Sprintf("📣 %s\n\n🎯 %s: %s\n📄 %s: %s\n\n%s",
		smallcaps.Convert("Broadcast preview"),
		smallcaps.Convert("Target"), payload.Target,
		smallcaps.Convert("Kind"), kind,
		smallcaps.Convert("Send it?"))

	preview, err := h.gw.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: broadcastKeyboard(adminID),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to send broadcast preview")
		h.fail(ctx, chatID)
		return
	}

	h.uc.Sessions().SetBroadcastDraft(adminID, &dto.BroadcastDraft{
		Payload:    payload,
		PreviewRef: dto.MessageRef{ChatID: chatID, MessageID: preview.ID},
	})
}

// HandleChatJoinRequest records an incoming membership request and
// notifies the approval channel
func (h *Handlers) HandleChatJoinRequest(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	req := update.ChatJoinRequest
	if req == nil {
		return
	}

	chatID := chatKey(&req.Chat)
	if err := h.uc.RecordJoinRequest(ctx, chatID, req.From.ID, req.From.Username); err != nil {
		h.logger.Error().Err(err).Int64("user_id", req.From.ID).Msg("Failed to record join request")
		return
	}

	if h.cfg.RequestChannelID == 0 {
		return
	}

	text := fmt.Sprintf("🔔 %s\n\n👤 @%s (%d)\n📢 %s",
		smallcaps.Convert("New join request"), req.From.Username, req.From.ID, req.Chat.Title)
	_, err := h.gw.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      h.cfg.RequestChannelID,
		Text:        text,
		ReplyMarkup: decisionKeyboard(chatID, req.From.ID),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to notify request channel")
	}
}

// chatKey renders the ledger key for a chat: username when public,
// numeric ID otherwise
func chatKey(chat *models.Chat) string {
	if chat.Username != "" {
		return "@" + chat.Username
	}
	return fmt.Sprintf("%d", chat.ID)
}
