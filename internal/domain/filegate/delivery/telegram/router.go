package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
)

// Router registers all update handlers on the bot
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates a router over the handlers
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes wires commands, callbacks and the content catch-all.
// Commands taking arguments register a spaced prefix next to the bare
// exact form so longer command names never collide.
func (r *Router) RegisterRoutes(b *tgbot.Bot) {
	h := r.handlers

	// User commands
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, h.HandleStart)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/about", tgbot.MatchTypePrefix, h.HandleAbout)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/credits", tgbot.MatchTypePrefix, h.HandleCredits)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/profile", tgbot.MatchTypePrefix, h.HandleProfile)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/request", tgbot.MatchTypePrefix, h.HandleRequest)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/givefont", tgbot.MatchTypePrefix, h.HandleGiveFont)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/getfont", tgbot.MatchTypePrefix, h.HandleGetFont)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/getid", tgbot.MatchTypePrefix, h.HandleGetID)

	// Admin commands
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/upload", tgbot.MatchTypePrefix, h.HandleUpload)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/cmd", tgbot.MatchTypePrefix, h.HandleCmd)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypePrefix, h.HandleStats)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/users", tgbot.MatchTypePrefix, h.HandleUsers)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/usage", tgbot.MatchTypePrefix, h.HandleUsage)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/broadcast", tgbot.MatchTypePrefix, h.HandleBroadcast)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/pbroadcast", tgbot.MatchTypePrefix, h.HandlePremiumBroadcast)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/ban", tgbot.MatchTypePrefix, h.HandleBan)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/unban", tgbot.MatchTypePrefix, h.HandleUnban)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/premiumusers", tgbot.MatchTypePrefix, h.HandlePremiumUsers)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/premium", tgbot.MatchTypeExact, h.HandlePremium)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/premium ", tgbot.MatchTypePrefix, h.HandlePremium)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/unpremium", tgbot.MatchTypePrefix, h.HandleUnpremium)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/del", tgbot.MatchTypePrefix, h.HandleDelete)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/genlink", tgbot.MatchTypePrefix, h.HandleGenLink)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/setphoto", tgbot.MatchTypePrefix, h.HandleSetPhoto)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/setquota", tgbot.MatchTypePrefix, h.HandleSetQuota)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/setbutton", tgbot.MatchTypePrefix, h.HandleSetButton)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/set", tgbot.MatchTypeExact, h.HandleAddChannel)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/set ", tgbot.MatchTypePrefix, h.HandleAddChannel)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/removeadmin", tgbot.MatchTypePrefix, h.HandleRemoveAdmin)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/remove", tgbot.MatchTypeExact, h.HandleRemoveChannel)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/remove ", tgbot.MatchTypePrefix, h.HandleRemoveChannel)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/listchannels", tgbot.MatchTypePrefix, h.HandleListChannels)

	// Owner commands
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/addadmin", tgbot.MatchTypePrefix, h.HandleAddAdmin)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/adminlist", tgbot.MatchTypePrefix, h.HandleAdminList)

	// Callbacks
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackAbout, tgbot.MatchTypeExact, h.HandleCallbackAbout)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackClose, tgbot.MatchTypeExact, h.HandleCallbackClose)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackUpload, tgbot.MatchTypeExact, h.HandleCallbackUpload)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackConfirmJoin, tgbot.MatchTypePrefix, h.HandleCallbackConfirmJoin)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackJoinAccept, tgbot.MatchTypePrefix, h.HandleCallbackJoinDecision)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackJoinReject, tgbot.MatchTypePrefix, h.HandleCallbackJoinDecision)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackBroadcastConfirm, tgbot.MatchTypePrefix, h.HandleCallbackBroadcastConfirm)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, consts.CallbackBroadcastCancel, tgbot.MatchTypePrefix, h.HandleCallbackBroadcastCancel)

	// Non-command messages: upload media, sentinel, broadcast capture
	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil &&
			update.Message.From != nil &&
			!strings.HasPrefix(update.Message.Text, "/")
	}, h.HandleContent)

	// Membership requests arrive as their own update kind
	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.ChatJoinRequest != nil
	}, h.HandleChatJoinRequest)

	r.logger.Info().Msg("Telegram routes registered")
}

// SetupCommands publishes the user-facing command menu
func (r *Router) SetupCommands(ctx context.Context, b *tgbot.Bot) {
	_, err := b.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "start", Description: "Open the bot"},
			{Command: "about", Description: "What this bot does"},
			{Command: "profile", Description: "Your profile"},
			{Command: "request", Description: "Message the operator"},
			{Command: "getfont", Description: "Stylize text"},
			{Command: "getid", Description: "Inspect a media file ID"},
		},
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to publish command menu")
	}
}
