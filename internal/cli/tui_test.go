package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bricklabels/pkg/rebrickable"
)

func testParts() []rebrickable.PartInfo {
	return []rebrickable.PartInfo{
		{PartNum: "3001", Name: "Brick 2 x 4", YearFrom: 1958},
		{PartNum: "3005", Name: "Brick 1 x 1", YearFrom: 1968, YearTo: 2024},
		{PartNum: "3020", Name: "Plate 2 x 4"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{}
}

func TestPartListNavigation(t *testing.T) {
	m := newPartListModel(testParts())

	next, _ := m.Update(keyMsg("down"))
	m = next.(partListModel)
	if m.cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(partListModel)
	if m.cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.cursor)
	}

	// Moving up at the top stays put
	next, _ = m.Update(keyMsg("up"))
	m = next.(partListModel)
	if m.cursor != 0 {
		t.Errorf("cursor should not go negative, got %d", m.cursor)
	}
}

func TestPartListSelect(t *testing.T) {
	m := newPartListModel(testParts())

	next, _ := m.Update(keyMsg("down"))
	m = next.(partListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(partListModel)

	if m.selected == nil {
		t.Fatal("enter should select the part under the cursor")
	}
	if m.selected.PartNum != "3005" {
		t.Errorf("selected part = %s, want 3005", m.selected.PartNum)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPartListQuitWithoutSelection(t *testing.T) {
	m := newPartListModel(testParts())

	next, cmd := m.Update(keyMsg("q"))
	m = next.(partListModel)

	if m.selected != nil {
		t.Error("q should not select anything")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestPartListView(t *testing.T) {
	m := newPartListModel(testParts())
	view := m.View()

	for _, want := range []string{"3001", "3005", "3020", "Brick 2 x 4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestFormatYears(t *testing.T) {
	tests := []struct {
		name string
		part rebrickable.PartInfo
		want string
	}{
		{"no years", rebrickable.PartInfo{}, "—"},
		{"single year", rebrickable.PartInfo{YearFrom: 1958}, "1958"},
		{"same year", rebrickable.PartInfo{YearFrom: 1958, YearTo: 1958}, "1958"},
		{"range", rebrickable.PartInfo{YearFrom: 1958, YearTo: 2024}, "1958–2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatYears(tt.part); got != tt.want {
				t.Errorf("formatYears() = %q, want %q", got, tt.want)
			}
		})
	}
}
