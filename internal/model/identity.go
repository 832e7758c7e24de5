package model

import "strings"

// MemberIdentity нормализованный адрес календаря сотрудника.
// Значение создаётся только через NormalizeIdentity.
type MemberIdentity string

// NormalizeIdentity приводит адрес к канонической форме
func NormalizeIdentity(raw string) MemberIdentity {
	v := strings.TrimSpace(raw)
	if len(v) >= len("mailto:") && strings.EqualFold(v[:len("mailto:")], "mailto:") {
		v = v[len("mailto:"):]
	}
	return MemberIdentity(strings.ToLower(strings.TrimSpace(v)))
}

func (id MemberIdentity) String() string {
	return string(id)
}

// IsZero true для пустого идентификатора
func (id MemberIdentity) IsZero() bool {
	return id == ""
}

// Matches сравнивает с произвольной строкой после нормализации
func (id MemberIdentity) Matches(raw string) bool {
	return !id.IsZero() && id == NormalizeIdentity(raw)
}
