package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
	"github.com/luffex/filegate/pkg/smallcaps"
)

// answer acknowledges a callback query, optionally with a toast
func (h *Handlers) answer(ctx context.Context, queryID, text string) {
	_, err := h.gw.bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to answer callback query")
	}
}

// callbackOrigin extracts the message the callback buttons live on
func callbackOrigin(query *models.CallbackQuery) (dto.MessageRef, bool) {
	if query.Message.Message == nil {
		return dto.MessageRef{}, false
	}
	return dto.MessageRef{
		ChatID:    query.Message.Message.Chat.ID,
		MessageID: query.Message.Message.ID,
	}, true
}

// HandleCallbackAbout serves the ui_about button
func (h *Handlers) HandleCallbackAbout(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}
	h.answer(ctx, query.ID, "")

	origin, ok := callbackOrigin(query)
	if !ok {
		return
	}
	_, err := h.gw.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      origin.ChatID,
		Text:        textAbout,
		ReplyMarkup: closeKeyboard(),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send about screen")
	}
}

// HandleCallbackClose serves the ui_close button: the message with the
// button disappears
func (h *Handlers) HandleCallbackClose(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}
	h.answer(ctx, query.ID, "")

	origin, ok := callbackOrigin(query)
	if !ok {
		return
	}
	if err := h.gw.Delete(ctx, origin); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to delete closed message")
	}
}

// HandleCallbackUpload serves the upload shortcut button
func (h *Handlers) HandleCallbackUpload(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}
	h.answer(ctx, query.ID, "")

	origin, ok := callbackOrigin(query)
	if !ok {
		return
	}
	h.beginUpload(ctx, origin.ChatID, query.From.ID)
}

// HandleCallbackConfirmJoin re-checks the gate after the user claims to
// have joined. The bundle ID rides in the callback data so delivery
// resumes on success.
func (h *Handlers) HandleCallbackConfirmJoin(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	origin, ok := callbackOrigin(query)
	if !ok {
		h.answer(ctx, query.ID, "")
		return
	}
	userID := query.From.ID
	bundleID := strings.TrimPrefix(query.Data, consts.CallbackConfirmJoin)

	result, err := h.uc.EvaluateGate(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Gate re-check failed")
		h.answer(ctx, query.ID, textFailure)
		return
	}

	if !result.Passed {
		h.answer(ctx, query.ID, "❌ "+smallcaps.Convert("You have not joined all channels yet."))
		return
	}

	h.answer(ctx, query.ID, "✅")
	if err := h.gw.Delete(ctx, origin); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to delete join screen")
	}

	if bundleID != "" {
		h.deliver(ctx, origin.ChatID, userID, bundleID)
		return
	}
	h.sendStartScreen(ctx, origin.ChatID, userID)
}

// HandleCallbackJoinDecision serves jr_accept / jr_reject from the
// request channel
func (h *Handlers) HandleCallbackJoinDecision(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	admin, err := h.uc.IsAdmin(ctx, query.From.ID)
	if err != nil || !admin {
		h.answer(ctx, query.ID, "🚫 "+smallcaps.Convert("Admin rights required."))
		return
	}

	accept := strings.HasPrefix(query.Data, consts.CallbackJoinAccept)
	payload := strings.TrimPrefix(query.Data, consts.CallbackJoinAccept)
	if !accept {
		payload = strings.TrimPrefix(query.Data, consts.CallbackJoinReject)
	}

	chatID, userID, ok := parseDecisionPayload(payload)
	if !ok {
		h.answer(ctx, query.ID, textFailure)
		return
	}

	status, err := h.uc.DecideJoinRequest(ctx, chatID, userID, accept, query.From.ID)
	switch {
	case errors.Is(err, domerrors.ErrAlreadyDecided):
		h.answer(ctx, query.ID, "⚠️ "+smallcaps.Convert("Already decided by another admin."))
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("Join decision failed")
		h.answer(ctx, query.ID, textFailure)
		return
	}

	h.answer(ctx, query.ID, "✅")

	if origin, ok := callbackOrigin(query); ok {
		verdict := "✅ " + smallcaps.Convert("Accepted")
		if status == entities.JoinStatusRejected {
			verdict = "❌ " + smallcaps.Convert("Rejected")
		}
		text := verdict + " — " + strconv.FormatInt(userID, 10) + " " + smallcaps.Convert("by") + " " + strconv.FormatInt(query.From.ID, 10)
		if err := h.gw.EditText(ctx, origin, text); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to edit decision notice")
		}
	}

	// Tell the user on accept so they can retry immediately
	if accept {
		h.reply(ctx, userID, "✅ "+smallcaps.Convert("Your join request was approved. Press /start to continue."))
	}
}

// parseDecisionPayload splits "<chat>:<user>"; the chat key itself
// never contains a colon
func parseDecisionPayload(payload string) (string, int64, bool) {
	idx := strings.LastIndex(payload, ":")
	if idx <= 0 {
		return "", 0, false
	}
	userID, err := strconv.ParseInt(payload[idx+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return payload[:idx], userID, true
}

// HandleCallbackBroadcastConfirm launches the confirmed fan-out
func (h *Handlers) HandleCallbackBroadcastConfirm(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	adminID, ok := parseAdminPayload(query.Data, consts.CallbackBroadcastConfirm)
	if !ok || adminID != query.From.ID {
		h.answer(ctx, query.ID, "🚫 "+smallcaps.Convert("Only the preparing admin can confirm."))
		return
	}

	draft, ok := h.uc.Sessions().BroadcastDraft(adminID)
	if !ok {
		h.answer(ctx, query.ID, "⚠️ "+smallcaps.Convert("No pending broadcast."))
		return
	}

	recipients, err := h.uc.BroadcastRecipients(ctx, draft.Payload.Target)
	if err != nil {
		h.logger.Error().Err(err).Msg("Recipient snapshot failed")
		h.answer(ctx, query.ID, textFailure)
		return
	}

	h.uc.Sessions().ClearBroadcast(adminID)
	h.answer(ctx, query.ID, "🚀")

	// Progress lands on the preview message
	if err := h.gw.EditText(ctx, draft.PreviewRef, "📣 "+smallcaps.Convert("Broadcasting...")); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to mark broadcast start")
	}
	h.uc.StartBroadcast(draft.Payload, recipients, draft.PreviewRef)
}

// HandleCallbackBroadcastCancel drops a prepared broadcast
func (h *Handlers) HandleCallbackBroadcastCancel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	adminID, ok := parseAdminPayload(query.Data, consts.CallbackBroadcastCancel)
	if !ok || adminID != query.From.ID {
		h.answer(ctx, query.ID, "🚫 "+smallcaps.Convert("Only the preparing admin can cancel."))
		return
	}

	draft, ok := h.uc.Sessions().BroadcastDraft(adminID)
	h.uc.Sessions().ClearBroadcast(adminID)
	h.answer(ctx, query.ID, "✖️")

	if ok {
		if err := h.gw.EditText(ctx, draft.PreviewRef, "✖️ "+smallcaps.Convert("Broadcast canceled.")); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to edit canceled preview")
		}
	}
}

// parseAdminPayload extracts the admin ID from "<prefix><id>"
func parseAdminPayload(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
