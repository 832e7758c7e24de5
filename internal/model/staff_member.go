package model

import "time"

// StaffMember сотрудник, на которого можно назначить встречу
type StaffMember struct {
	ID               string         `json:"id"`
	DisplayName      string         `json:"display_name"`
	CalendarIdentity MemberIdentity `json:"calendar_identity"`
	ColorTag         string         `json:"color_tag"`
	Timezone         string         `json:"timezone"`
	IsActive         bool           `json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
}
