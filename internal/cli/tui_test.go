package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/polybuild/pkg/feature"
)

func testItems() []FeatureItem {
	return []FeatureItem{
		{Name: "Array.from", Config: feature.Config{IsPublic: true, Size: 2048, Aliases: []string{"es6"}}},
		{Name: "Promise", Config: feature.Config{IsPublic: true, Size: 512, DetectSource: `"Promise"in self`},
			Sources: feature.Sources{Raw: strings.Repeat("x", 1536)}},
		{Name: "_ESAbstract.Call", Config: feature.Config{Size: 80}},
	}
}

func press(m tea.Model, key tea.KeyType) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: key})
	return m
}

func TestFeatureListNavigation(t *testing.T) {
	var m tea.Model = NewFeatureListModel(testItems())

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	if got := m.(FeatureListModel).Cursor; got != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", got)
	}

	m = press(m, tea.KeyUp)
	if got := m.(FeatureListModel).Cursor; got != 1 {
		t.Errorf("Cursor = %d, want 1", got)
	}
}

func TestFeatureListDetail(t *testing.T) {
	var m tea.Model = NewFeatureListModel(testItems())
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyEnter)

	if !m.(FeatureListModel).Detail {
		t.Fatal("enter should open the detail view")
	}
	view := m.View()
	if !strings.Contains(view, "Promise") || !strings.Contains(view, `"Promise"in self`) {
		t.Errorf("detail view missing feature data:\n%s", view)
	}
	if !strings.Contains(view, "Unminified") || !strings.Contains(view, "1.5 KB") {
		t.Errorf("detail view missing unminified size:\n%s", view)
	}

	m = press(m, tea.KeyEsc)
	if m.(FeatureListModel).Detail {
		t.Error("esc should close the detail view")
	}
}

func TestFeatureListQuit(t *testing.T) {
	m := NewFeatureListModel(testItems())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc in list view should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should return tea.Quit")
	}
}

func TestFeatureListView(t *testing.T) {
	view := NewFeatureListModel(testItems()).View()
	for _, want := range []string{"Array.from", "2.0 KB", "es6", "_ESAbstract.Call", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{-1, "0 B"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
