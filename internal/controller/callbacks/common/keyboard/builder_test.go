package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns(t *testing.T) {
	kb := NewBuilder().
		Columns(2, Button("a", "1"), Button("b", "2"), Button("c", "3")).
		Row().
		Row(URLButton("link", "https://meet.example.com/x")).
		Build()

	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "3", kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "https://meet.example.com/x", kb.InlineKeyboard[2][0].URL)
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, size, page         int
		wantStart, wantEnd, pages int
	}{
		{0, 5, 0, 0, 0, 1},
		{3, 5, 0, 0, 3, 1},
		{12, 5, 1, 5, 10, 3},
		{12, 5, 2, 10, 12, 3},
		{12, 5, 9, 10, 12, 3},
		{12, 5, -1, 0, 5, 3},
	}

	for _, tt := range tests {
		start, end, pages := PageBounds(tt.total, tt.size, tt.page)
		assert.Equal(t, []int{tt.wantStart, tt.wantEnd, tt.pages}, []int{start, end, pages})
	}
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", 0, 1))

	buttons := PaginationButtons("pending_page:", 1, 3)
	assert.Len(t, buttons, 3)
	assert.Equal(t, "pending_page:0", buttons[0].CallbackData)
	assert.Equal(t, "noop", buttons[1].CallbackData)
	assert.Equal(t, "pending_page:2", buttons[2].CallbackData)
}
