// Package consts contains shared constants for the filegate domain
package consts

// Setting keys
const (
	SettingStartPhoto   = "start_photo_file_id"
	SettingDailyQuota   = "daily_quota"
	SettingButtonTarget = "delivery_button_target"
)

// Callback data prefixes
const (
	CallbackAbout            = "ui_about"
	CallbackClose            = "ui_close"
	CallbackUpload           = "upload"
	CallbackConfirmJoin      = "confirm_join:"
	CallbackJoinAccept       = "jr_accept:"
	CallbackJoinReject       = "jr_reject:"
	CallbackBroadcastConfirm = "bc_confirm:"
	CallbackBroadcastCancel  = "bc_cancel:"
)

// UploadSentinel finalizes an open upload session
const UploadSentinel = "✅"

// BundleIDLength is the length of generated bundle identifiers
const BundleIDLength = 12

// Broadcast target selectors
const (
	TargetAll     = "all"
	TargetPremium = "premium"
)
