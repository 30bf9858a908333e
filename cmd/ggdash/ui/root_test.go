package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newModel() RootModel {
	return NewRootModel(NewClient("http://127.0.0.1:7878"), time.Second)
}

func TestDataMsgFillsModel(t *testing.T) {
	m := newModel()
	next, _ := m.Update(dataMsg{
		Status: &Status{RunID: "r1", Origin: "fallback", Fetched: 4, Parsed: 3, Applied: true},
		Runs: []Run{
			{RunID: "r1", Origin: "fallback", Fetched: 4, Parsed: 3, Applied: true},
			{RunID: "r0", Error: "fetch blocklist: offline"},
		},
		Logs: "Blocked domain: a.com",
	})
	m = next.(RootModel)

	rows := m.Table.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][1] != "fallback" || rows[0][4] != "ok" {
		t.Fatalf("row 0 = %q", rows[0])
	}
	if rows[1][1] != "-" || rows[1][4] != "fetch blocklist: offline" {
		t.Fatalf("row 1 = %q", rows[1])
	}

	view := m.View()
	for _, want := range []string{"GambleGuard", "3 parsed", "Blocked domain: a.com"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPollErrorKeepsData(t *testing.T) {
	m := newModel()
	next, _ := m.Update(dataMsg{Status: &Status{Parsed: 9, Applied: true}})
	m = next.(RootModel)
	next, _ = m.Update(dataMsg{Err: errors.New("connection refused")})
	m = next.(RootModel)

	if m.Status == nil || m.Status.Parsed != 9 {
		t.Fatal("status dropped after a failed poll")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Fatal("error not shown")
	}
}

func TestKeys(t *testing.T) {
	m := newModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RootModel)
	if m.Focus != focusLogs || m.Table.Focused() {
		t.Fatal("tab did not move focus to logs")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RootModel)
	if m.Focus != focusRuns || !m.Table.Focused() {
		t.Fatal("tab did not move focus back to runs")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestNoStatusYet(t *testing.T) {
	if !strings.Contains(newModel().View(), "No refresh has finished yet.") {
		t.Fatal("missing placeholder")
	}
}
