package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// readyConsoleModel builds a console model that has already received its
// window size.
func readyConsoleModel(t *testing.T, container *CLIContainer) consoleModel {
	t.Helper()

	model := newConsoleModel(container, consoleSettings{
		baseURL: "https://api.example.com/v1",
		apiKey:  "sk-test",
		model:   "gpt-4o-mini",
	})

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	ready := updated.(consoleModel)
	require.True(t, ready.ready)
	return ready
}

// TestConsoleModel_SubmitRecordsTurnAndSends verifies that submitting a
// prompt records the user turn, enters the waiting state, and produces a
// send command.
func TestConsoleModel_SubmitRecordsTurnAndSends(t *testing.T) {
	executor := &stubRequestExecutor{envelope: chatEnvelope()}
	model := readyConsoleModel(t, newTestContainer(executor, &stubUploadExecutor{}))

	model.input.SetValue("  hello  ")
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(consoleModel)

	require.NotNil(t, cmd)
	assert.True(t, model.waiting)
	assert.Empty(t, model.input.Value())
	require.Len(t, model.history, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "hello"}, model.history[0])

	msg := cmd()
	replied, ok := msg.(chatRepliedMsg)
	require.True(t, ok, "expected a chatRepliedMsg, got %T", msg)
	assert.Equal(t, "hello there", replied.reply)

	descriptor := executor.descriptor
	assert.Equal(t, "POST", descriptor.Method)
	assert.Equal(t, "/chat/completions", descriptor.Path)
	assert.JSONEq(t,
		`{"model":"gpt-4o-mini","messages":[{"role":"user","content":"hello"}]}`,
		string(descriptor.Body),
	)

	updated, _ = model.Update(replied)
	model = updated.(consoleModel)
	assert.False(t, model.waiting)
	require.Len(t, model.history, 2)
	assert.Equal(t, chatMessage{Role: "assistant", Content: "hello there"}, model.history[1])
	assert.Same(t, executor.envelope, model.lastEnvelope)
}

// TestConsoleModel_IgnoresEmptyAndConcurrentSubmits verifies blank prompts
// and submits while a request is in flight are dropped.
func TestConsoleModel_IgnoresEmptyAndConcurrentSubmits(t *testing.T) {
	model := readyConsoleModel(t, newTestContainer(&stubRequestExecutor{envelope: chatEnvelope()}, &stubUploadExecutor{}))

	model.input.SetValue("   ")
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(consoleModel)
	assert.Nil(t, cmd)
	assert.False(t, model.waiting)
	assert.Empty(t, model.history)

	model.waiting = true
	model.input.SetValue("second prompt")
	updated, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(consoleModel)
	assert.Nil(t, cmd)
	assert.Empty(t, model.history, "no turn may be recorded while waiting")
}

// TestConsoleModel_RawViewToggle verifies ctrl+r flips the raw envelope view
// and refuses to before any response arrived.
func TestConsoleModel_RawViewToggle(t *testing.T) {
	model := readyConsoleModel(t, newTestContainer(&stubRequestExecutor{}, &stubUploadExecutor{}))

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	model = updated.(consoleModel)
	assert.False(t, model.rawView)
	assert.Equal(t, "no response yet", model.statusMsg)

	model.lastEnvelope = chatEnvelope()
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	model = updated.(consoleModel)
	assert.True(t, model.rawView)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	model = updated.(consoleModel)
	assert.False(t, model.rawView)
}

// TestConsoleModel_FailureRendersError verifies a failed round trip lands in
// the transcript and clears the waiting state.
func TestConsoleModel_FailureRendersError(t *testing.T) {
	model := readyConsoleModel(t, newTestContainer(&stubRequestExecutor{}, &stubUploadExecutor{}))
	model.waiting = true

	updated, _ := model.Update(chatFailedMsg{err: assert.AnError})
	model = updated.(consoleModel)

	assert.False(t, model.waiting)
	require.Len(t, model.lines, 1)
	assert.Contains(t, model.lines[0], assert.AnError.Error())
}

// TestSendChatCmd_ErrorStatusAndEmptyChoices verifies protocol-level
// failures are turned into chatFailedMsg values.
func TestSendChatCmd_ErrorStatusAndEmptyChoices(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		executor := &stubRequestExecutor{envelope: &domain.ResponseEnvelope{Status: 429, Body: "rate limited"}}
		model := readyConsoleModel(t, newTestContainer(executor, &stubUploadExecutor{}))
		model.history = []chatMessage{{Role: "user", Content: "hi"}}

		msg := model.sendChatCmd()()
		failed, ok := msg.(chatFailedMsg)
		require.True(t, ok, "expected a chatFailedMsg, got %T", msg)
		assert.Contains(t, failed.err.Error(), "API returned status 429")
		assert.Contains(t, failed.err.Error(), "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		executor := &stubRequestExecutor{envelope: &domain.ResponseEnvelope{Status: 200, Body: `{"choices":[]}`}}
		model := readyConsoleModel(t, newTestContainer(executor, &stubUploadExecutor{}))
		model.history = []chatMessage{{Role: "user", Content: "hi"}}

		msg := model.sendChatCmd()()
		failed, ok := msg.(chatFailedMsg)
		require.True(t, ok, "expected a chatFailedMsg, got %T", msg)
		assert.Contains(t, failed.err.Error(), "no choices")
	})
}

// TestRenderRawEnvelope verifies the raw view carries the envelope content
// even when highlighting decorates it.
func TestRenderRawEnvelope(t *testing.T) {
	rendered := renderRawEnvelope(chatEnvelope())
	assert.Contains(t, rendered, "200")
	assert.Contains(t, rendered, "hello there")
}
