package ui

import (
	"errors"
	"fmt"
	"strings"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/logger"
	"banglaixanh/tool/internal/mapping"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// syncOrder is the focus order of the form. The submit button comes last.
var syncOrder = append(oldPanel.Fields(), newPanel.Fields()...)

type initialLoadedMsg struct {
	Screen uint64
	Loads  []mapping.Load
	Old    []addressapi.Unit
	New    []addressapi.Unit
	Err    error
}

type optionsMsg struct {
	Screen uint64
	Load   mapping.Load
	Units  []addressapi.Unit
	Err    error
}

type submittedMsg struct {
	Screen uint64
	Err    error
}

type pickerItem struct{ mapping.Option }

func (i pickerItem) Title() string       { return i.Label }
func (i pickerItem) Description() string { return "" }
func (i pickerItem) FilterValue() string { return i.Label }

type SyncModel struct {
	Session *Session
	Form    mapping.Form

	Detail    textinput.Model
	Picker    list.Model
	Picking   bool
	pickField mapping.Field

	Focus   int
	loading map[mapping.Level]bool
	pending []mapping.Load

	screen Screen
	width  int
	height int
}

func NewSyncModel(s *Session, screen Screen, width, height int) SyncModel {
	ti := textinput.New()
	ti.Placeholder = "số nhà, tên đường (không bắt buộc)"
	ti.Prompt = ""
	ti.CharLimit = 200

	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	picker := list.New(nil, d, width, height)
	picker.SetShowStatusBar(false)
	picker.SetShowHelp(false)
	picker.Styles.Title = titleStyle

	form, loads := mapping.Form{}.InitialLoads()
	m := SyncModel{
		Session: s,
		Form:    form,
		Detail:  ti,
		Picker:  picker,
		loading: map[mapping.Level]bool{},
		pending: loads,
		screen:  screen,
	}
	for _, l := range loads {
		m.loading[l.Level] = true
	}
	m.resize(width, height)
	return m
}

func (m SyncModel) Init() tea.Cmd {
	return initialLoadCmd(m.screen, m.Session.API, m.pending)
}

func (m *SyncModel) resize(width, height int) {
	m.width, m.height = width, height
	m.Picker.SetSize(max(width-4, 30), max(height-6, 8))
	m.Detail.Width = max(width/2-28, 20)
}

// initialLoadCmd fetches both province lists in parallel.
func initialLoadCmd(screen Screen, api API, loads []mapping.Load) tea.Cmd {
	return func() tea.Msg {
		msg := initialLoadedMsg{Screen: screen.ID, Loads: loads}
		g, ctx := errgroup.WithContext(screen.Ctx)
		var oldUnits, newUnits []addressapi.Unit
		g.Go(func() error {
			var err error
			oldUnits, err = api.GetOldProvinces(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			newUnits, err = api.GetProvinces(ctx)
			return err
		})
		if msg.Err = g.Wait(); msg.Err == nil {
			msg.Old, msg.New = oldUnits, newUnits
		}
		return msg
	}
}

func fetchCmd(screen Screen, api API, load mapping.Load) tea.Cmd {
	return func() tea.Msg {
		msg := optionsMsg{Screen: screen.ID, Load: load}
		switch load.Level {
		case mapping.LevelOldDistricts:
			msg.Units, msg.Err = api.GetOldDistricts(screen.Ctx, load.ParentID)
		case mapping.LevelOldWards:
			msg.Units, msg.Err = api.GetOldWards(screen.Ctx, load.ParentID)
		case mapping.LevelNewWards:
			msg.Units, msg.Err = api.GetWards(screen.Ctx, load.ParentID)
		default:
			msg.Err = fmt.Errorf("unexpected load level %d", load.Level)
		}
		return msg
	}
}

func (m SyncModel) Update(msg tea.Msg) (SyncModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case initialLoadedMsg:
		if msg.Screen != m.screen.ID {
			return m, nil
		}
		m.loading = map[mapping.Level]bool{}
		if msg.Err != nil {
			logger.Errorf("Load provinces failed: %v", msg.Err)
			return m, notifyError(msg.Err, "Không tải được danh sách tỉnh/thành phố")
		}
		for _, l := range msg.Loads {
			units := msg.Old
			if l.Level == mapping.LevelNewProvinces {
				units = msg.New
			}
			m.Form = m.Form.ApplyOptions(l, mapping.FromUnits(units))
		}
		return m, nil

	case optionsMsg:
		if msg.Screen != m.screen.ID {
			return m, nil
		}
		delete(m.loading, msg.Load.Level)
		if msg.Err != nil {
			logger.Errorf("Load options level=%d parent=%s failed: %v", msg.Load.Level, msg.Load.ParentID, msg.Err)
			return m, notifyError(msg.Err, "Không tải được danh sách đơn vị hành chính")
		}
		m.Form = m.Form.ApplyOptions(msg.Load, mapping.FromUnits(msg.Units))
		return m, nil

	case submittedMsg:
		if msg.Screen != m.screen.ID {
			return m, nil
		}
		m.Form = m.Form.Finish(msg.Err)
		if msg.Err != nil {
			logger.Errorf("Save ward mapping failed: %v", msg.Err)
			return m, notifyError(msg.Err, "Lưu địa chỉ thất bại, vui lòng thử lại")
		}
		m.Detail.Reset()
		m.loading = map[mapping.Level]bool{}
		m.Focus = 0
		m.syncFocus()
		return m, notify(toastSuccess, "Đã lưu địa chỉ tương ứng")

	case tea.KeyMsg:
		if m.Form.Phase == mapping.PhaseConfirming {
			return m.updateDialog(msg)
		}
		if m.Picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	if m.Picking {
		var cmd tea.Cmd
		m.Picker, cmd = m.Picker.Update(msg)
		return m, cmd
	}
	return m.updateDetail(msg)
}

func (m SyncModel) updateDialog(msg tea.KeyMsg) (SyncModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		form, req, ok := m.Form.Confirm()
		if !ok {
			return m, nil
		}
		m.Form = form
		screen, api := m.screen, m.Session.API
		logger.Infof("Saving ward mapping %s/%s -> %s", req.OldProvinceID, req.OldWardID, req.NewWardID)
		return m, func() tea.Msg {
			return submittedMsg{Screen: screen.ID, Err: api.UpsertUserWardMapping(screen.Ctx, req)}
		}
	case "n", "esc":
		m.Form = m.Form.Cancel()
	}
	return m, nil
}

func (m SyncModel) updatePicker(msg tea.KeyMsg) (SyncModel, tea.Cmd) {
	filtering := m.Picker.FilterState() == list.Filtering
	switch msg.String() {
	case "esc":
		if !filtering {
			m.Picking = false
			return m, nil
		}
	case "enter":
		if !filtering {
			m.Picking = false
			it, ok := m.Picker.SelectedItem().(pickerItem)
			if !ok {
				return m, nil
			}
			return m.selectValue(m.pickField, it.Value)
		}
	}
	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)
	return m, cmd
}

func (m SyncModel) handleKey(msg tea.KeyMsg) (SyncModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return backToMenuMsg{} }
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "ctrl+s":
		return m.requestConfirm()
	case "enter":
		if m.onSubmit() {
			return m.requestConfirm()
		}
		field := syncOrder[m.Focus]
		if field == mapping.OldDetail {
			m.moveFocus(1)
			return m, nil
		}
		return m.openPicker(field)
	}
	return m.updateDetail(msg)
}

func (m SyncModel) updateDetail(msg tea.Msg) (SyncModel, tea.Cmd) {
	if m.onSubmit() || syncOrder[m.Focus] != mapping.OldDetail {
		return m, nil
	}
	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	m.Form, _ = m.Form.Select(mapping.OldDetail, m.Detail.Value())
	return m, cmd
}

func (m SyncModel) onSubmit() bool { return m.Focus >= len(syncOrder) }

func (m SyncModel) enabled(field mapping.Field) bool {
	if field == mapping.NewProvince || field == mapping.NewWard {
		return newPanel.Enabled(m.Form, field)
	}
	return oldPanel.Enabled(m.Form, field)
}

// moveFocus steps over disabled fields.
func (m *SyncModel) moveFocus(step int) {
	n := len(syncOrder) + 1
	for i := 0; i < n; i++ {
		m.Focus = (m.Focus + step + n) % n
		if m.onSubmit() || m.enabled(syncOrder[m.Focus]) {
			break
		}
	}
	m.syncFocus()
}

func (m *SyncModel) syncFocus() {
	if !m.onSubmit() && syncOrder[m.Focus] == mapping.OldDetail {
		m.Detail.Focus()
	} else {
		m.Detail.Blur()
	}
}

func (m SyncModel) openPicker(field mapping.Field) (SyncModel, tea.Cmd) {
	opts := m.Form.Options(field)
	if len(opts) == 0 {
		return m, notify(toastInfo, "Chưa có dữ liệu cho "+field.String())
	}
	items := make([]list.Item, len(opts))
	selected := 0
	for i, o := range opts {
		items[i] = pickerItem{o}
		if o.Value == m.Form.Value(field) {
			selected = i
		}
	}
	cmd := m.Picker.SetItems(items)
	m.Picker.ResetFilter()
	m.Picker.Select(selected)
	m.Picker.Title = "Chọn " + field.String()
	m.pickField = field
	m.Picking = true
	return m, cmd
}

func (m SyncModel) selectValue(field mapping.Field, value string) (SyncModel, tea.Cmd) {
	form, load := m.Form.Select(field, value)
	m.Form = form
	if !load.Needed() {
		return m, nil
	}
	m.loading[load.Level] = true
	return m, fetchCmd(m.screen, m.Session.API, load)
}

func (m SyncModel) requestConfirm() (SyncModel, tea.Cmd) {
	form, err := m.Form.RequestConfirm()
	if errors.Is(err, mapping.ErrRequired) {
		return m, notify(toastError, "Vui lòng chọn đầy đủ: "+strings.TrimPrefix(err.Error(), mapping.ErrRequired.Error()+": "))
	}
	m.Form = form
	return m, nil
}

// loadingField reports whether the option list behind field is being fetched.
func (m SyncModel) loadingField(field mapping.Field) bool {
	switch field {
	case mapping.OldProvince:
		return m.loading[mapping.LevelOldProvinces]
	case mapping.NewProvince:
		return m.loading[mapping.LevelNewProvinces]
	case mapping.OldDistrict:
		return m.loading[mapping.LevelOldDistricts]
	case mapping.OldWard:
		return m.loading[mapping.LevelOldWards]
	case mapping.NewWard:
		return m.loading[mapping.LevelNewWards]
	}
	return false
}

func (m SyncModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Đồng bộ địa chỉ") + "\n\n")

	if m.Picking {
		b.WriteString(m.Picker.View())
		b.WriteString("\n" + blurredStyle.Render("/ để lọc, enter để chọn, esc để đóng"))
		return b.String()
	}

	focused := mapping.Field(-1)
	if !m.onSubmit() {
		focused = syncOrder[m.Focus]
	}
	st := panelState{Focused: focused, HasFocus: true, DetailView: m.Detail.View(), Loading: m.loadingField}
	half := max(m.width/2-4, 36)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Width(half).Render(oldPanel.View(m.Form, st)),
		boxStyle.Width(half).Render(newPanel.View(m.Form, st)),
	))
	b.WriteString("\n\n")

	submit := "[ Lưu ]"
	switch {
	case m.Form.Submitting:
		submit = "Đang lưu..."
	case m.onSubmit():
		submit = selectedRowStyle.Render(submit)
	case m.Form.Validate() != nil:
		submit = disabledStyle.Render(submit)
	}
	b.WriteString(submit + "\n")
	b.WriteString(blurredStyle.Render("tab/↑↓ chuyển ô, enter để chọn, ctrl+s để lưu, esc về menu"))

	if m.Form.Phase == mapping.PhaseConfirming {
		b.WriteString("\n\n" + m.dialogView())
	}
	return b.String()
}

func (m SyncModel) dialogView() string {
	body := strings.Join([]string{
		titleStyle.Render("Xác nhận lưu địa chỉ"),
		"",
		"Địa chỉ cũ:  " + m.Form.OldAddressText(),
		"Địa chỉ mới: " + m.Form.NewAddressText(),
		"",
		blurredStyle.Render("y/enter để xác nhận, n/esc để hủy"),
	}, "\n")
	return dialogStyle.Render(body)
}
