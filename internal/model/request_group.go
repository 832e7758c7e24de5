package model

type GroupStatus string

const (
	GroupStatusRequested GroupStatus = "requested"
	GroupStatusScheduled GroupStatus = "scheduled"
	GroupStatusConcluded GroupStatus = "concluded"
	GroupStatusRejected  GroupStatus = "rejected"
)

// ResolveGroupStatus вычисляет статус группы по статусам её слотов.
// Порядок проверок важен: первое совпадение выигрывает.
func ResolveGroupStatus(slots []*BookingSlot) GroupStatus {
	if len(slots) == 0 {
		return GroupStatusRequested
	}

	if anyStatus(slots, SlotStatusScheduled) {
		return GroupStatusScheduled
	}
	if anyStatus(slots, SlotStatusConcluded) {
		return GroupStatusConcluded
	}

	for _, slot := range slots {
		if slot.Status != SlotStatusRejected {
			return GroupStatusRequested
		}
	}
	return GroupStatusRejected
}

func anyStatus(slots []*BookingSlot, status SlotStatus) bool {
	for _, slot := range slots {
		if slot.Status == status {
			return true
		}
	}
	return false
}

// RequestGroup слоты одной заявки вместе с их агрегированным статусом
type RequestGroup struct {
	ID     string
	Status GroupStatus
	Slots  []*BookingSlot
}

// NewRequestGroup собирает группу и вычисляет её статус
func NewRequestGroup(id string, slots []*BookingSlot) *RequestGroup {
	return &RequestGroup{
		ID:     id,
		Status: ResolveGroupStatus(slots),
		Slots:  slots,
	}
}
