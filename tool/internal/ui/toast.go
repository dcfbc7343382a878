package ui

import (
	"errors"
	"strings"
	"time"

	"banglaixanh/network"

	tea "github.com/charmbracelet/bubbletea"
)

const toastTTL = 4 * time.Second

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toastMsg struct {
	Kind toastKind
	Text string
}

type toastExpiredMsg struct{ ID int }

// sessionExpiredMsg sends the user back to the login screen.
type sessionExpiredMsg struct{}

type toast struct {
	id   int
	kind toastKind
	text string
}

// ToastModel keeps the notifications currently on screen.
type ToastModel struct {
	items  []toast
	nextID int
	ttl    time.Duration
}

func NewToastModel() ToastModel { return ToastModel{ttl: toastTTL} }

// Push shows text and returns the command that removes it again.
func (m ToastModel) Push(kind toastKind, text string) (ToastModel, tea.Cmd) {
	m.nextID++
	id := m.nextID
	m.items = append(append([]toast(nil), m.items...), toast{id: id, kind: kind, text: text})
	return m, tea.Tick(m.ttl, func(time.Time) tea.Msg { return toastExpiredMsg{ID: id} })
}

func (m ToastModel) Update(msg tea.Msg) (ToastModel, tea.Cmd) {
	switch msg := msg.(type) {
	case toastMsg:
		return m.Push(msg.Kind, msg.Text)
	case toastExpiredMsg:
		items := make([]toast, 0, len(m.items))
		for _, t := range m.items {
			if t.id != msg.ID {
				items = append(items, t)
			}
		}
		m.items = items
	}
	return m, nil
}

func (m ToastModel) Len() int { return len(m.items) }

func (m ToastModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	lines := make([]string, len(m.items))
	for i, t := range m.items {
		switch t.kind {
		case toastSuccess:
			lines[i] = toastSuccessStyle.Render("✓ " + t.text)
		case toastError:
			lines[i] = toastErrorStyle.Render("✗ " + t.text)
		default:
			lines[i] = toastInfoStyle.Render(t.text)
		}
	}
	return strings.Join(lines, "\n")
}

func notify(kind toastKind, text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{Kind: kind, Text: text} }
}

// notifyError shows the server message when there is one, fallback otherwise.
// An expired session is reported as such instead.
func notifyError(err error, fallback string) tea.Cmd {
	if network.IsUnauthorized(err) {
		return func() tea.Msg { return sessionExpiredMsg{} }
	}
	if errors.Is(err, network.ErrLinkExpired) {
		return notify(toastError, linkExpiredText)
	}
	if msg := network.ServerMessage(err); msg != "" {
		return notify(toastError, msg)
	}
	return notify(toastError, fallback)
}

const linkExpiredText = "Link đã hết hạn, vui lòng chuyển đổi lại"
