package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
	"github.com/luffex/filegate/pkg/smallcaps"
)

// Screen texts. The stylized font matches the rest of the bot's UI.
var (
	textStart = smallcaps.Convert("Hello!") + "\n\n" +
		smallcaps.Convert("Send me a file link and I will deliver the files to you.") + "\n" +
		smallcaps.Convert("Delivered files self-destruct, save them elsewhere!")

	textPending = "⏳ " + smallcaps.Convert("Your join request is pending approval.") + "\n" +
		smallcaps.Convert("You will get access once an admin approves it.")

	textJoinRequired = "🔒 " + smallcaps.Convert("To use this bot you must join the channels below first.")

	textAbout = "ℹ️ " + smallcaps.Convert("This bot delivers file bundles behind a channel-membership gate.") + "\n\n" +
		smallcaps.Convert("Files are ephemeral: every delivery self-destructs after 10 minutes.")

	textCredits = "🤝 " + smallcaps.Convert("Made with care by the filegate team.")

	textBanned = "🚫 " + smallcaps.Convert("You are banned from using this bot.")

	textFailure = "⚠️ " + smallcaps.Convert("Something went wrong. Please try again.")

	textExpired = "🗑 " + smallcaps.Convert("These files expired or were removed.")

	textQuota = "📉 " + smallcaps.Convert("Daily download limit reached. Try again tomorrow.")
)

// startKeyboard builds the /start screen keyboard; uploaders get the
// extra upload shortcut
func startKeyboard(uploader bool) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{
			{Text: "ℹ️ " + smallcaps.Convert("About"), CallbackData: consts.CallbackAbout},
			{Text: "✖️ " + smallcaps.Convert("Close"), CallbackData: consts.CallbackClose},
		},
	}
	if uploader {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "📤 " + smallcaps.Convert("Upload"), CallbackData: consts.CallbackUpload},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// joinKeyboard lists every missing channel plus the re-check button.
// The bundle ID rides along in the callback so delivery resumes after
// the user joins.
func joinKeyboard(missing []entities.GateChannel, bundleID string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(missing)+1)
	for _, ch := range missing {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: ch.Label, URL: ch.Link},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "✅ " + smallcaps.Convert("I joined"), CallbackData: consts.CallbackConfirmJoin + bundleID},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// closeKeyboard is a single dismiss button
func closeKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "✖️ " + smallcaps.Convert("Close"), CallbackData: consts.CallbackClose}},
		},
	}
}

// decisionKeyboard offers accept/reject for one join request
func decisionKeyboard(chatID string, userID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ " + smallcaps.Convert("Accept"), CallbackData: fmt.Sprintf("%s%s:%d", consts.CallbackJoinAccept, chatID, userID)},
				{Text: "❌ " + smallcaps.Convert("Reject"), CallbackData: fmt.Sprintf("%s%s:%d", consts.CallbackJoinReject, chatID, userID)},
			},
		},
	}
}

// broadcastKeyboard offers confirm/cancel for a prepared broadcast
func broadcastKeyboard(adminID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🚀 " + smallcaps.Convert("Send"), CallbackData: fmt.Sprintf("%s%d", consts.CallbackBroadcastConfirm, adminID)},
				{Text: "✖️ " + smallcaps.Convert("Cancel"), CallbackData: fmt.Sprintf("%s%d", consts.CallbackBroadcastCancel, adminID)},
			},
		},
	}
}
