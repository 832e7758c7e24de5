package common

// Форматы callback data. Telegram ограничивает их 64 байтами, поэтому
// сотрудники в ростере и мастере адресуются индексом.
const (
	Noop = "noop"

	PendingPage = "pending_page:" // pending_page:0
	ViewGroup   = "view_group:"   // view_group:<group_id>

	ShowRoster   = "roster:" // roster:<slot_id>
	AssignMember = "assign:" // assign:<idx>

	CancelGroup   = "cancel_group:"   // cancel_group:<group_id>
	ConfirmCancel = "cancel_confirm:" // cancel_confirm:<group_id>
	CancelReason  = "cancel_reason:"  // cancel_reason:<group_id>

	SyncTimezone = "sync_tz:"     // sync_tz:<idx>
	SyncToggle   = "sync_toggle:" // sync_toggle:<idx>
	SyncNext     = "sync_next"
	SyncConfirm  = "sync_confirm"
	SyncBack     = "sync_back"
	SyncCancel   = "sync_cancel"
)
