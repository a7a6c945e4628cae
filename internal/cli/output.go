package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/nanoncore/nano-routeros/internal/i18n"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// render writes value as JSON or YAML, or rows as a table under headers.
func (a *App) render(value any, headers []string, rows [][]string) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = a.Out.Write(data)
		return err
	}

	translated := make([]string, len(headers))
	for i, h := range headers {
		translated[i] = i18n.T("header." + h)
		if translated[i] == "header."+h {
			translated[i] = h
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(translated...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(a.Out, t.String())
	return err
}

// renderFields writes a single object as a field/value table.
func (a *App) renderFields(value any, fields [][2]string) error {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f[0], f[1]})
	}
	return a.render(value, []string{"field", "value"}, rows)
}

func yesNo(b bool) string {
	if b {
		return i18n.T("bool.yes")
	}
	return i18n.T("bool.no")
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatUint(n, 10) + " B"
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
