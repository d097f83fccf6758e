package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// consoleFlags holds command-line flags for the console command
type consoleFlags struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPProxy  string
	HTTPSProxy string
}

// NewConsoleCommand creates the console command
func NewConsoleCommand(container *CLIContainer) *cobra.Command {
	flags := &consoleFlags{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive chat console",
		Long: `Open an interactive chat console against the backend's chat-completions
endpoint. Each submitted line is relayed with the full conversation history;
the assistant reply is rendered into the transcript.

Keys:
  enter    send the prompt
  ctrl+r   toggle a raw view of the last response envelope
  ctrl+c   quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := flags.APIKey
			if apiKey == "" {
				apiKey = os.Getenv(apiKeyEnvVar)
			}
			if apiKey == "" {
				return fmt.Errorf("API key is required (--api-key or $%s)", apiKeyEnvVar)
			}

			var proxy *domain.ProxyConfig
			if flags.HTTPProxy != "" || flags.HTTPSProxy != "" {
				proxy = &domain.ProxyConfig{
					HTTPProxy:  flags.HTTPProxy,
					HTTPSProxy: flags.HTTPSProxy,
				}
			}

			model := newConsoleModel(container, consoleSettings{
				baseURL: flags.BaseURL,
				apiKey:  apiKey,
				model:   flags.Model,
				proxy:   proxy,
			})

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("console failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "https://api.openai.com/v1", "API base URL")
	cmd.Flags().StringVar(&flags.APIKey, "api-key", "", "API key for the bearer token (falls back to $"+apiKeyEnvVar+")")
	cmd.Flags().StringVar(&flags.Model, "model", "gpt-4o-mini", "Model sent in the chat-completions body")
	cmd.Flags().StringVar(&flags.HTTPProxy, "http-proxy", "", "Forward proxy for http:// destinations")
	cmd.Flags().StringVar(&flags.HTTPSProxy, "https-proxy", "", "Forward proxy for https:// destinations")

	return cmd
}

// consoleSettings is the fixed per-session relay configuration.
type consoleSettings struct {
	baseURL string
	apiKey  string
	model   string
	proxy   *domain.ProxyConfig
}

// chatMessage is one turn of the conversation, in chat-completions wire form.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the POST body for the chat-completions endpoint.
type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatCompletionResponse extracts the assistant reply.
type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

var (
	consoleTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	consoleUserStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	consoleAssistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	consoleErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	consoleStatusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// consoleModel holds the state for the Bubble Tea chat console
type consoleModel struct {
	container *CLIContainer
	settings  consoleSettings

	input      textinput.Model
	transcript viewport.Model
	lines      []string
	history    []chatMessage

	lastEnvelope *domain.ResponseEnvelope
	rawView      bool
	waiting      bool
	statusMsg    string

	width  int
	height int
	ready  bool
}

// newConsoleModel creates a new console model
func newConsoleModel(container *CLIContainer, settings consoleSettings) consoleModel {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	return consoleModel{
		container: container,
		settings:  settings,
		input:     input,
		statusMsg: "enter: send | ctrl+r: raw view | ctrl+c: quit",
	}
}

// Init implements the Bubble Tea init method
func (m consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

// chatRepliedMsg carries a successful round trip back into the update loop.
type chatRepliedMsg struct {
	reply    string
	envelope *domain.ResponseEnvelope
}

// chatFailedMsg carries a relay or protocol failure.
type chatFailedMsg struct {
	err error
}

// Update implements the Bubble Tea update method
func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chrome := 4 // title, status, input, spacing
		if !m.ready {
			m.transcript = viewport.New(msg.Width, msg.Height-chrome)
			m.ready = true
		} else {
			m.transcript.Width = msg.Width
			m.transcript.Height = msg.Height - chrome
		}
		m.input.Width = msg.Width - 4
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+r":
			if m.lastEnvelope == nil {
				m.statusMsg = "no response yet"
				return m, nil
			}
			m.rawView = !m.rawView
			m.refreshTranscript()
			return m, nil

		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" || m.waiting {
				return m, nil
			}
			m.input.SetValue("")
			m.rawView = false
			m.waiting = true
			m.statusMsg = "sending..."
			m.history = append(m.history, chatMessage{Role: "user", Content: prompt})
			m.lines = append(m.lines, consoleUserStyle.Render("You: ")+prompt)
			m.refreshTranscript()
			return m, m.sendChatCmd()
		}

	case chatRepliedMsg:
		m.waiting = false
		m.statusMsg = "enter: send | ctrl+r: raw view | ctrl+c: quit"
		m.lastEnvelope = msg.envelope
		m.history = append(m.history, chatMessage{Role: "assistant", Content: msg.reply})
		m.lines = append(m.lines, consoleAssistantStyle.Render("Assistant: ")+msg.reply)
		m.refreshTranscript()
		return m, nil

	case chatFailedMsg:
		m.waiting = false
		m.statusMsg = "enter: send | ctrl+r: raw view | ctrl+c: quit"
		m.lines = append(m.lines, consoleErrorStyle.Render(msg.err.Error()))
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	var vpCmd tea.Cmd
	m.transcript, vpCmd = m.transcript.Update(msg)

	return m, tea.Batch(cmd, vpCmd)
}

// View implements the Bubble Tea view method
func (m consoleModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := consoleTitleStyle.Render("Ai-SDK-chatUI console") + consoleStatusStyle.Render("  model: "+m.settings.model)
	if m.rawView {
		title += consoleStatusStyle.Render("  [raw view]")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.transcript.View(),
		m.input.View(),
		consoleStatusStyle.Render(m.statusMsg),
	)
}

// refreshTranscript rebuilds the viewport content for the active view mode.
func (m *consoleModel) refreshTranscript() {
	if !m.ready {
		return
	}

	if m.rawView && m.lastEnvelope != nil {
		m.transcript.SetContent(renderRawEnvelope(m.lastEnvelope))
		m.transcript.GotoTop()
		return
	}

	wrap := lipgloss.NewStyle().Width(m.transcript.Width)
	m.transcript.SetContent(wrap.Render(strings.Join(m.lines, "\n\n")))
	m.transcript.GotoBottom()
}

// sendChatCmd relays the conversation so far and delivers the reply as a
// message. The descriptor travels the same path GUI-dispatched requests do.
func (m consoleModel) sendChatCmd() tea.Cmd {
	settings := m.settings
	history := make([]chatMessage, len(m.history))
	copy(history, m.history)
	service := m.container.RelayService

	return func() tea.Msg {
		body, err := json.Marshal(chatCompletionRequest{
			Model:    settings.model,
			Messages: history,
		})
		if err != nil {
			return chatFailedMsg{err: fmt.Errorf("failed to encode chat body: %w", err)}
		}

		envelope, err := service.ExecuteRequest(context.Background(), domain.RequestDescriptor{
			BaseURL:     settings.baseURL,
			APIKey:      settings.apiKey,
			Method:      "POST",
			Path:        "/chat/completions",
			Body:        body,
			ProxyConfig: settings.proxy,
		})
		if err != nil {
			return chatFailedMsg{err: err}
		}

		if envelope.Status >= 400 {
			return chatFailedMsg{
				err: fmt.Errorf("API returned status %d: %s", envelope.Status, previewBody(envelope.Body, 200)),
			}
		}

		var parsed chatCompletionResponse
		if err := json.Unmarshal([]byte(envelope.Body), &parsed); err != nil {
			return chatFailedMsg{err: fmt.Errorf("failed to decode chat response: %w", err)}
		}
		if len(parsed.Choices) == 0 {
			return chatFailedMsg{err: fmt.Errorf("chat response carried no choices")}
		}

		return chatRepliedMsg{
			reply:    parsed.Choices[0].Message.Content,
			envelope: envelope,
		}
	}
}

// renderRawEnvelope pretty-prints the last envelope with JSON syntax
// highlighting, falling back to plain text when highlighting fails.
func renderRawEnvelope(envelope *domain.ResponseEnvelope) string {
	pretty, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", envelope)
	}

	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, string(pretty), "json", "terminal256", "monokai"); err != nil {
		return string(pretty)
	}
	return highlighted.String()
}

// previewBody bounds an error body excerpt for the transcript.
func previewBody(body string, limit int) string {
	body = strings.TrimSpace(body)
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
