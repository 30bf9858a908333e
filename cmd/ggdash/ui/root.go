package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	runLimit = 50
	logTail  = 200
)

type focus int

const (
	focusRuns focus = iota
	focusLogs
)

// dataMsg carries one poll of the agent.
type dataMsg struct {
	Status *Status
	Runs   []Run
	Logs   string
	Err    error
}

type tickMsg time.Time

type RootModel struct {
	Client   *Client
	Interval time.Duration

	Focus  focus
	Table  table.Model
	Logs   viewport.Model
	Status *Status
	Err    error
	Polled time.Time

	width  int
	height int
}

func NewRootModel(c *Client, interval time.Duration) RootModel {
	columns := []table.Column{
		{Title: "Started", Width: 19},
		{Title: "Origin", Width: 9},
		{Title: "Fetched", Width: 8},
		{Title: "Parsed", Width: 8},
		{Title: "Result", Width: 40},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RootModel{
		Client:   c,
		Interval: interval,
		Table:    t,
		Logs:     viewport.New(80, 10),
	}
}

func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.tick())
}

func (m RootModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m RootModel) poll() tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var msg dataMsg
		if msg.Status, msg.Err = c.Status(ctx); msg.Err != nil {
			return msg
		}
		if msg.Runs, msg.Err = c.Runs(ctx, runLimit); msg.Err != nil {
			return msg
		}
		msg.Logs, msg.Err = c.Logs(ctx, logTail)
		return msg
	}
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		paneHeight := (msg.Height - 12) / 2
		if paneHeight < 3 {
			paneHeight = 3
		}
		m.Table.SetHeight(paneHeight)
		m.Logs.Width = msg.Width - 6
		m.Logs.Height = paneHeight
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		case "tab":
			if m.Focus == focusRuns {
				m.Focus = focusLogs
				m.Table.Blur()
			} else {
				m.Focus = focusRuns
				m.Table.Focus()
			}
			return m, nil
		}

	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())

	case dataMsg:
		m.Err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.Polled = time.Now()
		m.Status = msg.Status
		m.Table.SetRows(runRows(msg.Runs))
		m.Logs.SetContent(msg.Logs)
		m.Logs.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	if m.Focus == focusRuns {
		m.Table, cmd = m.Table.Update(msg)
	} else {
		m.Logs, cmd = m.Logs.Update(msg)
	}
	return m, cmd
}

func runRows(runs []Run) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		result := "ok"
		if !r.Applied {
			result = r.Error
			if result == "" {
				result = "not applied"
			}
		}
		origin := r.Origin
		if origin == "" {
			origin = "-"
		}
		rows = append(rows, table.Row{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			origin,
			fmt.Sprint(r.Fetched),
			fmt.Sprint(r.Parsed),
			result,
		})
	}
	return rows
}

func (m RootModel) statusLine() string {
	st := m.Status
	if st == nil {
		return blurredStyle.Render("No refresh has finished yet.")
	}
	line := fmt.Sprintf("Last refresh %s from %s: %d fetched, %d parsed",
		st.FinishedAt.Local().Format("2006-01-02 15:04:05"), st.Origin, st.Fetched, st.Parsed)
	if st.Applied {
		return okStyle(line + ", applied")
	}
	return errorMessageStyle(line + ", not applied: " + st.Error)
}

func (m RootModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GambleGuard") + "  " + blurredStyle.Render(m.Client.BaseURL) + "\n\n")
	b.WriteString(m.statusLine() + "\n\n")

	runs, logs := paneStyle, paneStyle
	if m.Focus == focusRuns {
		runs = focusedPaneStyle
	} else {
		logs = focusedPaneStyle
	}
	b.WriteString(runs.Render(m.Table.View()) + "\n")
	b.WriteString(logs.Render(m.Logs.View()) + "\n")

	b.WriteString(blurredStyle.Render("tab: switch pane • r: refresh • q: quit • up/down: scroll"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return docStyle.Render(b.String())
}
