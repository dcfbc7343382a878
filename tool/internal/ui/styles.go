package ui

import "github.com/charmbracelet/lipgloss"

var (
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Faint(true)
	noStyle       = lipgloss.NewStyle()

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000")).
				Render

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedBoxStyle = boxStyle.BorderForeground(lipgloss.Color("205"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#25A065")).
			Padding(1, 2)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	skeletonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))

	// result rows, keyed by conversion status
	successRowStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#25A065")).
			Background(lipgloss.Color("#0F2A1C")).
			PaddingLeft(1)
	warningRowStyle = successRowStyle.
			BorderForeground(lipgloss.Color("#E8A317")).
			Background(lipgloss.Color("#2E2410"))
	errorRowStyle = successRowStyle.
			BorderForeground(lipgloss.Color("#E5484D")).
			Background(lipgloss.Color("#2E1214"))

	toastInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("#3B6EA8")).Padding(0, 1)
	toastSuccessStyle = toastInfoStyle.Background(lipgloss.Color("#25A065"))
	toastErrorStyle   = toastInfoStyle.Background(lipgloss.Color("#E5484D"))
)
