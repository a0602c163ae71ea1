package facade

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/howler/internal/reminder"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func newTestServer(t *testing.T) (*Server, *fixture) {
	fx := newFixture(t)
	return NewServer(fx.facade, SpeechDefaults{Rate: 170, Volume: 1.0}), fx
}

func TestServerAddAndGetReminders(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGetReminders(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "No reminders found.", toolText(t, res))

	res, err = s.handleAddReminder(ctx, callRequest(map[string]interface{}{
		"title": "Dentist",
		"date":  "2025-03-11",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, toolText(t, res))

	var added Result
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &added))
	require.NotNil(t, added.Reminder)
	assert.Equal(t, "Dentist", added.Reminder.Title)

	res, err = s.handleGetReminders(ctx, callRequest(nil))
	require.NoError(t, err)

	var listed []reminder.Reminder
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &listed))
	assert.Equal(t, []reminder.Reminder{*added.Reminder}, listed)
}

func TestServerAddReminderInvalidDate(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleAddReminder(context.Background(), callRequest(map[string]interface{}{
		"title": "Dentist",
		"date":  "tomorrow",
	}))

	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServerIDTools(t *testing.T) {
	s, fx := newTestServer(t)
	ctx := context.Background()
	r := fx.add(t, "Dentist", "2025-03-11")

	res, err := s.handleCompleteReminder(ctx, callRequest(map[string]interface{}{"id": float64(r.ID)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.True(t, fx.facade.GetReminders()[0].Completed)

	res, err = s.handleUncompleteReminder(ctx, callRequest(map[string]interface{}{"id": float64(r.ID)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.False(t, fx.facade.GetReminders()[0].Completed)

	res, err = s.handleDeleteReminder(ctx, callRequest(map[string]interface{}{"id": float64(42)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Reminder not found", toolText(t, res))
	assert.Len(t, fx.facade.GetReminders(), 1)

	res, err = s.handleDeleteReminder(ctx, callRequest(map[string]interface{}{"id": float64(r.ID)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Empty(t, fx.facade.GetReminders())
}

func TestServerRejectsBadIDs(t *testing.T) {
	s, fx := newTestServer(t)
	fx.add(t, "Dentist", "2025-03-11")

	for _, args := range []map[string]interface{}{
		{},
		{"id": float64(-1)},
		{"id": 1.9},
		{"id": float64(now.UnixMilli()) + 0.5},
	} {
		res, err := s.handleCompleteReminder(context.Background(), callRequest(args))

		require.NoError(t, err)
		assert.True(t, res.IsError, "args %v", args)
	}
	assert.False(t, fx.facade.GetReminders()[0].Completed)
}

func TestServerSendHowlerDefaults(t *testing.T) {
	s, fx := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSendHowler(ctx, callRequest(map[string]interface{}{"message": "Stand up"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleSendHowler(ctx, callRequest(map[string]interface{}{
		"message":     "Sit down",
		"speed":       float64(120),
		"volume":      0.3,
		"voice_index": float64(1),
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, []string{"Stand up", "Sit down"}, fx.speaker.spoken)
	assert.Equal(t, []int{170, 120}, fx.speaker.rates)
	assert.Equal(t, []float64{1.0, 0.3}, fx.speaker.volumes)
	assert.Equal(t, []int{0, 1}, fx.speaker.indexes)
}

func TestServerCheckReminders(t *testing.T) {
	s, fx := newTestServer(t)
	ctx := context.Background()

	fx.checker.report = reminder.Report{Checked: 2}
	res, err := s.handleCheckReminders(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "Checked 2 reminders, nothing announced.", toolText(t, res))

	fx.checker.report = reminder.Report{
		Checked:  2,
		Notified: 1,
		Decisions: []reminder.Decision{
			{ID: 1, Title: "Dentist", Category: reminder.Tomorrow, Notified: true, Message: "REMINDER! Dentist is due TOMORROW!"},
			{ID: 2, Title: "Taxes", Category: reminder.Future},
		},
	}
	res, err = s.handleCheckReminders(ctx, callRequest(nil))
	require.NoError(t, err)

	var announced []string
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &announced))
	assert.Equal(t, []string{"REMINDER! Dentist is due TOMORROW!"}, announced)
}
