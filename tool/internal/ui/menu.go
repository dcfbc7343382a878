package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type tool int

const (
	toolMerge tool = iota
	toolSync
)

type toolItem struct {
	title, desc string
	tool        tool
}

func (i toolItem) Title() string       { return i.title }
func (i toolItem) Description() string { return i.desc }
func (i toolItem) FilterValue() string { return i.title }

// ToolSelectedMsg opens a tool screen.
type ToolSelectedMsg struct{ Tool tool }

type logoutMsg struct{}

type MenuModel struct {
	List list.Model
}

func NewMenuModel(width, height int) MenuModel {
	items := []list.Item{
		toolItem{title: "Chuyển đổi địa chỉ", desc: "Đổi địa chỉ cũ sang địa giới mới, từ file Excel hoặc nhập tay", tool: toolMerge},
		toolItem{title: "Đồng bộ địa chỉ", desc: "Khai báo phường/xã mới tương ứng với một địa chỉ cũ", tool: toolSync},
	}
	l := list.New(items, list.NewDefaultDelegate(), width, menuHeight(height))
	l.Title = "Công cụ"
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.Styles.Title = titleStyle
	return MenuModel{List: l}
}

func menuHeight(h int) int {
	if h <= 0 {
		return 12
	}
	return max(h-4, 8)
}

func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.List.SetSize(msg.Width, menuHeight(msg.Height))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if it, ok := m.List.SelectedItem().(toolItem); ok {
				return m, func() tea.Msg { return ToolSelectedMsg{Tool: it.tool} }
			}
			return m, nil
		case "L":
			return m, func() tea.Msg { return logoutMsg{} }
		}
	}
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	return m.List.View() + "\n" + blurredStyle.Render("Enter để mở, L để đăng xuất, ctrl+c để thoát")
}
