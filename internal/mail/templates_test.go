package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNotification(t *testing.T) {
	html, err := RenderNotification(NotificationParams{
		Title:     "Winners announced",
		Message:   "The jury has spoken.",
		FirstName: "Ada",
		Category:  "Best Documentary",
		Winner:    "Northern Light",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Winners announced")
	assert.Contains(t, html, "Hi Ada,")
	assert.Contains(t, html, "Best Documentary")
	assert.Contains(t, html, "Northern Light")
}

func TestRenderNotificationDefaults(t *testing.T) {
	html, err := RenderNotification(NotificationParams{
		Title:   "Reminder",
		Message: "Voting closes Friday.",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi there,")
	assert.NotContains(t, html, "Category:")
}

func TestRenderNotificationEscapesHTML(t *testing.T) {
	html, err := RenderNotification(NotificationParams{
		Title:   "Update",
		Message: "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderTicketConfirmation(t *testing.T) {
	html, err := RenderTicketConfirmation(TicketParams{
		TicketType: "vip",
		Code:       "TCK-0042",
		PriceCents: 15000,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "TCK-0042")
	assert.Contains(t, html, "$150.00")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$29.00", FormatPrice(2900))
	assert.Equal(t, "$0.05", FormatPrice(5))
	assert.Equal(t, "$150.00", FormatPrice(15000))
}
