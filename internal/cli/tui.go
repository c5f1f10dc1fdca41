package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/polybuild/pkg/feature"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	detailCodeStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// FeatureListModel - Interactive output tree browser
// =============================================================================

// FeatureItem is one row of the browser.
type FeatureItem struct {
	Name    string
	Config  feature.Config
	Sources feature.Sources
}

// FeatureListModel is the bubbletea model for browsing compiled features.
type FeatureListModel struct {
	Items  []FeatureItem
	Cursor int
	Height int
	Offset int

	// Detail is set while the selected feature's metadata is shown.
	Detail bool
}

// NewFeatureListModel creates a new feature list model.
func NewFeatureListModel(items []FeatureItem) FeatureListModel {
	return FeatureListModel{
		Items:  items,
		Height: 15,
	}
}

func (m FeatureListModel) Init() tea.Cmd {
	return nil
}

func (m FeatureListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter", "backspace", "left", "h":
				m.Detail = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if len(m.Items) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FeatureListModel) View() string {
	if m.Detail && len(m.Items) > 0 {
		return m.detailView(m.Items[m.Cursor])
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Polyfill Features"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		public := "✓"
		if !it.Config.IsPublic {
			public = ""
		}
		rows = append(rows, []string{
			cursor,
			it.Name,
			formatSize(it.Config.Size),
			strconv.Itoa(len(it.Config.Dependencies)),
			public,
			strings.Join(it.Config.Aliases, ", "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Feature", "Size", "Deps", "Public", "Aliases").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if !m.Items[idx].Config.IsPublic {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Items)), len(m.Items))))

	return b.String()
}

func (m FeatureListModel) detailView(it FeatureItem) string {
	var b strings.Builder
	cfg := it.Config

	b.WriteString(StyleTitle.Render(it.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	line := func(key, value string) {
		if value == "" {
			value = "—"
		}
		b.WriteString(detailKeyStyle.Render(key) + " " + StyleValue.Render(value) + "\n")
	}
	line("Directory", cfg.BaseDir)
	line("Size", formatSize(cfg.Size))
	if it.Sources.Raw != "" {
		line("Unminified", formatSize(len(it.Sources.Raw)))
	}
	line("License", cfg.License)
	line("Dependencies", strings.Join(cfg.Dependencies, ", "))
	line("Aliases", strings.Join(cfg.Aliases, ", "))
	line("Public", strconv.FormatBool(cfg.IsPublic))
	line("Testable", strconv.FormatBool(cfg.IsTestable))
	line("Has tests", strconv.FormatBool(cfg.HasTests))
	line("Spec", cfg.Spec)
	line("Docs", cfg.Docs)
	if cfg.DetectSource != "" {
		b.WriteString(detailKeyStyle.Render("Detect") + " " + detailCodeStyle.Render(cfg.DetectSource) + "\n")
	}
	for _, note := range cfg.Notes {
		b.WriteString("\n" + StyleDim.Render("• "+note))
	}

	return b.String()
}

// formatSize renders a byte count for humans, e.g. "1.5 KB".
func formatSize(n int) string {
	if n < 0 {
		n = 0
	}
	return datasize.ByteSize(n).HumanReadable()
}
