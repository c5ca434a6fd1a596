package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/luffex/filegate/internal/domain/filegate/consts"
	domerrors "github.com/luffex/filegate/internal/domain/filegate/errors"
	"github.com/luffex/filegate/pkg/smallcaps"
)

const recentUsersLimit = 20

// requireAdmin rejects non-admin callers with a flat permission text
func (h *Handlers) requireAdmin(ctx context.Context, userID, chatID int64) bool {
	admin, err := h.uc.IsAdmin(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Admin check failed")
		h.fail(ctx, chatID)
		return false
	}
	if !admin {
		h.reply(ctx, chatID, "🚫 "+smallcaps.Convert("Admin rights required."))
		return false
	}
	return true
}

// requireOwner rejects everyone but the configured owner
func (h *Handlers) requireOwner(ctx context.Context, userID, chatID int64) bool {
	if !h.uc.IsOwner(userID) {
		h.reply(ctx, chatID, "🚫 "+smallcaps.Convert("Owner rights required."))
		return false
	}
	return true
}

// commandArg returns the trimmed remainder after the command word
func commandArg(text, command string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, command))
}

// targetID parses a numeric user ID argument
func targetID(text, command string) (int64, bool) {
	arg := commandArg(text, command)
	if arg == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// HandleUpload serves /upload: opens a fresh upload session
func (h *Handlers) HandleUpload(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	h.beginUpload(ctx, msg.Chat.ID, msg.From.ID)
}

// beginUpload is shared between /upload and the upload callback
func (h *Handlers) beginUpload(ctx context.Context, chatID, userID int64) {
	if !h.admitUser(ctx, userID, "", chatID) {
		return
	}
	if !h.passGate(ctx, userID, chatID, "") {
		return
	}

	bundleID, err := h.uc.BeginUpload(ctx, userID)
	switch {
	case errors.Is(err, domerrors.ErrNotUploader):
		h.reply(ctx, chatID, "🚫 "+smallcaps.Convert("Uploading needs admin or premium rights."))
		return
	case err != nil:
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to open upload session")
		h.fail(ctx, chatID)
		return
	}

	text := fmt.Sprintf("📤 %s\n\n📦 %s\n\n%s %s",
		smallcaps.Convert("Upload session opened."), bundleID,
		smallcaps.Convert("Send your media, then send"), consts.UploadSentinel)
	h.reply(ctx, chatID, text)
}

// HandleCmd serves /cmd with the admin command reference
func (h *Handlers) HandleCmd(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	lines := []string{
		"🛠 " + smallcaps.Convert("Admin commands"),
		"",
		"/upload — " + smallcaps.Convert("new bundle"),
		"/genlink <id> — " + smallcaps.Convert("re-issue link"),
		"/del <id> — " + smallcaps.Convert("delete bundle"),
		"/stats — " + smallcaps.Convert("counters"),
		"/users — " + smallcaps.Convert("recent users"),
		"/usage [id] — " + smallcaps.Convert("downloads today"),
		"/broadcast [text] — " + smallcaps.Convert("message everyone"),
		"/pbroadcast [text] — " + smallcaps.Convert("message premium"),
		"/ban /unban <id>",
		"/premium /unpremium <id>",
		"/premiumusers — " + smallcaps.Convert("list premium"),
		"/set <link> <chat> <label> — " + smallcaps.Convert("add gate channel"),
		"/remove <link> <chat> <label>",
		"/listchannels",
		"/setphoto <file_id>",
		"/setquota <n|off>",
		"/setbutton <url|off>",
	}
	if h.uc.IsOwner(msg.From.ID) {
		lines = append(lines, "", "/addadmin /removeadmin <id>", "/adminlist")
	}
	h.reply(ctx, msg.Chat.ID, strings.Join(lines, "\n"))
}

// HandleStats serves /stats
func (h *Handlers) HandleStats(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	stats, err := h.uc.Stats(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Stats lookup failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}

	text := fmt.Sprintf("📊 %s\n\n👥 %s: %d\n⭐ %s: %d\n🚫 %s: %d\n📥 %s: %d",
		smallcaps.Convert("Bot stats"),
		smallcaps.Convert("Users"), stats.TotalUsers,
		smallcaps.Convert("Premium"), stats.PremiumUsers,
		smallcaps.Convert("Banned"), stats.BannedUsers,
		smallcaps.Convert("Downloads"), stats.Downloads)
	h.reply(ctx, msg.Chat.ID, text)
}

// HandleUsers serves /users with the most recently seen users
func (h *Handlers) HandleUsers(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	users, err := h.uc.RecentUsers(ctx, recentUsersLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("User list failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	if len(users) == 0 {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("No users yet."))
		return
	}

	var b strings.Builder
	b.WriteString("👥 " + smallcaps.Convert("Recent users") + "\n")
	for _, u := range users {
		flags := ""
		if u.Premium {
			flags += " ⭐"
		}
		if u.Banned {
			flags += " 🚫"
		}
		fmt.Fprintf(&b, "\n%d @%s%s", u.ID, u.Username, flags)
	}
	h.reply(ctx, msg.Chat.ID, b.String())
}

// HandleUsage serves /usage [id]
func (h *Handlers) HandleUsage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	subject := msg.From.ID
	if id, ok := targetID(msg.Text, "/usage"); ok {
		subject = id
	}

	count, err := h.uc.UsageToday(ctx, subject)
	if err != nil {
		h.logger.Error().Err(err).Msg("Usage lookup failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("📥 %s %d: %d",
		smallcaps.Convert("Downloads today for"), subject, count))
}

// HandleBroadcast serves /broadcast [text] targeting everyone
func (h *Handlers) HandleBroadcast(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.startBroadcastFlow(ctx, update, "/broadcast", consts.TargetAll)
}

// HandlePremiumBroadcast serves /pbroadcast [text] targeting premium users
func (h *Handlers) HandlePremiumBroadcast(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.startBroadcastFlow(ctx, update, "/pbroadcast", consts.TargetPremium)
}

// startBroadcastFlow previews inline text immediately or arms capture
// of the next message
func (h *Handlers) startBroadcastFlow(ctx context.Context, update *models.Update, command, target string) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	if text := commandArg(msg.Text, command); text != "" {
		h.showBroadcastPreview(ctx, msg.Chat.ID, msg.From.ID, broadcastTextPayload(text, target))
		return
	}

	h.uc.Sessions().SetAwaitingBroadcast(msg.From.ID, target, true)
	h.reply(ctx, msg.Chat.ID, "📣 "+smallcaps.Convert("Send the message to broadcast (text or media)."))
}

// HandleBan serves /ban <id>
func (h *Handlers) HandleBan(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.setUserFlag(ctx, update, "/ban", func(ctx context.Context, id int64) error {
		return h.uc.SetBanned(ctx, id, true)
	})
}

// HandleUnban serves /unban <id>
func (h *Handlers) HandleUnban(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.setUserFlag(ctx, update, "/unban", func(ctx context.Context, id int64) error {
		return h.uc.SetBanned(ctx, id, false)
	})
}

// HandlePremium serves /premium <id>
func (h *Handlers) HandlePremium(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.setUserFlag(ctx, update, "/premium", func(ctx context.Context, id int64) error {
		return h.uc.SetPremium(ctx, id, true)
	})
}

// HandleUnpremium serves /unpremium <id>
func (h *Handlers) HandleUnpremium(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.setUserFlag(ctx, update, "/unpremium", func(ctx context.Context, id int64) error {
		return h.uc.SetPremium(ctx, id, false)
	})
}

// setUserFlag is the shared guard+parse+apply path for user flag commands
func (h *Handlers) setUserFlag(ctx context.Context, update *models.Update, command string, apply func(context.Context, int64) error) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	id, ok := targetID(msg.Text, command)
	if !ok {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" "+command+" <user_id>")
		return
	}

	err := apply(ctx, id)
	switch {
	case errors.Is(err, domerrors.ErrOwnerImmutable):
		h.reply(ctx, msg.Chat.ID, "🚫 "+smallcaps.Convert("The owner cannot be modified."))
	case err != nil:
		h.logger.Error().Err(err).Str("command", command).Int64("target", id).Msg("User flag update failed")
		h.fail(ctx, msg.Chat.ID)
	default:
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ %s %d", smallcaps.Convert("Done for"), id))
	}
}

// HandlePremiumUsers serves /premiumusers
func (h *Handlers) HandlePremiumUsers(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	ids, err := h.uc.BroadcastRecipients(ctx, consts.TargetPremium)
	if err != nil {
		h.logger.Error().Err(err).Msg("Premium list failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	if len(ids) == 0 {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("No premium users."))
		return
	}

	var b strings.Builder
	b.WriteString("⭐ " + smallcaps.Convert("Premium users") + "\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "\n%d", id)
	}
	h.reply(ctx, msg.Chat.ID, b.String())
}

// HandleDelete serves /del <bundleID>
func (h *Handlers) HandleDelete(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	bundleID := commandArg(msg.Text, "/del")
	if bundleID == "" {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /del <bundle_id>")
		return
	}

	err := h.uc.DeleteBundle(ctx, bundleID)
	switch {
	case errors.Is(err, domerrors.ErrBundleNotFound):
		h.reply(ctx, msg.Chat.ID, textExpired)
	case err != nil:
		h.logger.Error().Err(err).Str("bundle_id", bundleID).Msg("Bundle deletion failed")
		h.fail(ctx, msg.Chat.ID)
	default:
		h.reply(ctx, msg.Chat.ID, "🗑 "+smallcaps.Convert("Bundle deleted."))
	}
}

// HandleGenLink serves /genlink <bundleID>
func (h *Handlers) HandleGenLink(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	bundleID := commandArg(msg.Text, "/genlink")
	if bundleID == "" {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /genlink <bundle_id>")
		return
	}

	link, err := h.uc.RegenerateLink(ctx, bundleID)
	switch {
	case errors.Is(err, domerrors.ErrBundleNotFound):
		h.reply(ctx, msg.Chat.ID, textExpired)
	case err != nil:
		h.logger.Error().Err(err).Str("bundle_id", bundleID).Msg("Link regeneration failed")
		h.fail(ctx, msg.Chat.ID)
	default:
		h.reply(ctx, msg.Chat.ID, "🔗 "+link)
	}
}

// HandleSetPhoto serves /setphoto <file_id|off>
func (h *Handlers) HandleSetPhoto(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.setSetting(ctx, update, "/setphoto", func(ctx context.Context, value string) error {
		return h.uc.SetStartPhoto(ctx, value)
	})
}

// HandleSetButton serves /setbutton <url|off>
func (h *Handlers) HandleSetButton(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.setSetting(ctx, update, "/setbutton", func(ctx context.Context, value string) error {
		return h.uc.SetButtonTarget(ctx, value)
	})
}

// setSetting is the shared path for string settings; "off" clears
func (h *Handlers) setSetting(ctx context.Context, update *models.Update, command string, apply func(context.Context, string) error) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	value := commandArg(msg.Text, command)
	if value == "" {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" "+command+" <value|off>")
		return
	}
	if strings.EqualFold(value, "off") {
		value = ""
	}

	if err := apply(ctx, value); err != nil {
		h.logger.Error().Err(err).Str("command", command).Msg("Setting update failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	h.reply(ctx, msg.Chat.ID, "✅ "+smallcaps.Convert("Saved."))
}

// HandleSetQuota serves /setquota <n|off>
func (h *Handlers) HandleSetQuota(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	arg := commandArg(msg.Text, "/setquota")
	if arg == "" {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /setquota <n|off>")
		return
	}

	var quota int64
	if !strings.EqualFold(arg, "off") {
		parsed, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || parsed < 0 {
			h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Quota must be a non-negative number or off."))
			return
		}
		quota = parsed
	}

	if err := h.uc.SetDailyQuota(ctx, quota); err != nil {
		h.logger.Error().Err(err).Msg("Quota update failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}

	if quota == 0 {
		h.reply(ctx, msg.Chat.ID, "✅ "+smallcaps.Convert("Quota disabled."))
		return
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ %s %d", smallcaps.Convert("Daily quota set to"), quota))
}

// HandleAddChannel serves /set <link> <chat_id> <label...>
func (h *Handlers) HandleAddChannel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	link, chatID, label, ok := parseChannelTuple(msg.Text, "/set")
	if !ok {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /set <link> <chat_id> <label>")
		return
	}

	if err := h.uc.AddGateChannel(ctx, link, chatID, label); err != nil {
		h.logger.Error().Err(err).Msg("Gate channel add failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	h.reply(ctx, msg.Chat.ID, "✅ "+smallcaps.Convert("Gate channel added."))
}

// HandleRemoveChannel serves /remove <link> <chat_id> <label...>
func (h *Handlers) HandleRemoveChannel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	link, chatID, label, ok := parseChannelTuple(msg.Text, "/remove")
	if !ok {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /remove <link> <chat_id> <label>")
		return
	}

	found, err := h.uc.RemoveGateChannel(ctx, link, chatID, label)
	if err != nil {
		h.logger.Error().Err(err).Msg("Gate channel removal failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	if !found {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("No such gate channel."))
		return
	}
	h.reply(ctx, msg.Chat.ID, "✅ "+smallcaps.Convert("Gate channel removed."))
}

// parseChannelTuple splits "<command> <link> <chat_id> <label...>";
// the label may contain spaces
func parseChannelTuple(text, command string) (link, chatID, label string, ok bool) {
	parts := strings.Fields(commandArg(text, command))
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], strings.Join(parts[2:], " "), true
}

// HandleListChannels serves /listchannels
func (h *Handlers) HandleListChannels(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireAdmin(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	channels, err := h.uc.ListGateChannels(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Gate channel list failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}
	if len(channels) == 0 {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("No gate channels configured."))
		return
	}

	var b strings.Builder
	b.WriteString("📢 " + smallcaps.Convert("Gate channels") + "\n")
	for _, ch := range channels {
		fmt.Fprintf(&b, "\n%s | %s | %s", ch.Link, ch.ChatID, ch.Label)
	}
	h.reply(ctx, msg.Chat.ID, b.String())
}

// HandleAddAdmin serves /addadmin <id> (owner only)
func (h *Handlers) HandleAddAdmin(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireOwner(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	id, ok := targetID(msg.Text, "/addadmin")
	if !ok {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /addadmin <user_id>")
		return
	}

	err := h.uc.PromoteAdmin(ctx, msg.From.ID, id)
	switch {
	case errors.Is(err, domerrors.ErrOwnerImmutable):
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("The owner is already an admin."))
	case err != nil:
		h.logger.Error().Err(err).Int64("target", id).Msg("Admin promotion failed")
		h.fail(ctx, msg.Chat.ID)
	default:
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ %s %d", smallcaps.Convert("Admin added:"), id))
	}
}

// HandleRemoveAdmin serves /removeadmin <id> (owner only)
func (h *Handlers) HandleRemoveAdmin(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireOwner(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	id, ok := targetID(msg.Text, "/removeadmin")
	if !ok {
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("Usage:")+" /removeadmin <user_id>")
		return
	}

	err := h.uc.DemoteAdmin(ctx, msg.From.ID, id)
	switch {
	case errors.Is(err, domerrors.ErrNotAdmin):
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("That user is not an admin."))
	case errors.Is(err, domerrors.ErrOwnerImmutable):
		h.reply(ctx, msg.Chat.ID, smallcaps.Convert("The owner cannot be removed."))
	case err != nil:
		h.logger.Error().Err(err).Int64("target", id).Msg("Admin demotion failed")
		h.fail(ctx, msg.Chat.ID)
	default:
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ %s %d", smallcaps.Convert("Admin removed:"), id))
	}
}

// HandleAdminList serves /adminlist (owner only)
func (h *Handlers) HandleAdminList(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.requireOwner(ctx, msg.From.ID, msg.Chat.ID) {
		return
	}

	ids, err := h.uc.ListAdmins(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Admin list failed")
		h.fail(ctx, msg.Chat.ID)
		return
	}

	var b strings.Builder
	b.WriteString("🛡 " + smallcaps.Convert("Admins") + "\n")
	fmt.Fprintf(&b, "\n%d (%s)", h.cfg.OwnerID, smallcaps.Convert("owner"))
	for _, id := range ids {
		fmt.Fprintf(&b, "\n%d", id)
	}
	h.reply(ctx, msg.Chat.ID, b.String())
}
