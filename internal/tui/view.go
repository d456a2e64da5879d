package tui

import (
	"fmt"
	"strings"

	"imgsort/internal/session"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (m *Model) View() string {
	return render(m.session.View(), m)
}

func render(v session.View, m *Model) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("imgsort"))
	sb.WriteString(" " + StatusStyle.Render(v.Directory))
	if v.DryRun {
		sb.WriteString(" " + HiddenStyle.Render("[dry run]"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(renderImage(v, m.clampHeight))
	sb.WriteString("\n\n")
	sb.WriteString(renderCategories(v))
	sb.WriteString("\n\n")

	progress := fmt.Sprintf("annotated: %d  remaining: %d", v.Annotated, v.Remaining)
	if len(v.Keywords) > 0 {
		progress += fmt.Sprintf("  keywords: %s (%s, sep %q)", strings.Join(v.Keywords, ", "), v.KeywordMode, v.Separator)
	}
	if m.slideshow {
		progress += "  ▶ slideshow"
	}
	sb.WriteString(StatusStyle.Render(progress))

	if m.statusMsg != "" {
		style := SuccessStyle
		if m.statusErr {
			style = ErrorStyle
		}
		sb.WriteString("\n" + style.Render(m.statusMsg))
	}

	sb.WriteString("\n")
	if m.mode == Command {
		sb.WriteString(m.input.View())
	} else {
		sb.WriteString(m.help.View(m.keys))
	}

	return App.Render(sb.String())
}

func renderImage(v session.View, clampHeight int) string {
	switch {
	case !v.ValidDirectory:
		return ErrorStyle.Render(v.Directory + " is not a valid directory")
	case v.Total == 0:
		return StatusStyle.Render("No image files in folder.")
	case v.Done:
		return SuccessStyle.Render("All images annotated. Press m to move them into their folders.")
	}

	header := fmt.Sprintf("[%d/%d] %s", v.Index+1, v.Total, FileStyle.Render(v.Current))
	if v.CurrentLabel != "" {
		header += " " + SelectedStyle.Render(v.CurrentLabel)
	}
	if v.Hidden {
		return header + "\n" + HiddenStyle.Render("(image hidden)")
	}
	body := v.CurrentPath
	if v.Clamp && clampHeight > 0 {
		body += StatusStyle.Render(fmt.Sprintf("  (height ≤ %dpx)", clampHeight))
	}
	return header + "\n" + body
}

func renderCategories(v session.View) string {
	cells := make([]string, 0, len(v.Categories))
	for i, c := range v.Categories {
		label := c
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, c)
		}
		if c == v.CurrentLabel {
			cells = append(cells, SelectedStyle.Inherit(CategoryStyle).Render(label))
			continue
		}
		cells = append(cells, CategoryStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
