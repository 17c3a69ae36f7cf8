package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", raw)
	}
}

// listKeys are the envelope fields paged endpoints wrap their rows in.
var listKeys = []string{"records", "list", "rows", "items"}

// leadingColumns are pulled to the front of a table when present.
var leadingColumns = []string{"id", "userId", "warehouseId", "goodsId", "shelfId", "deviceId", "sensorId", "username", "name", "timestamp"}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Write renders a JSON payload in the requested format.
func Write(w io.Writer, format Format, payload json.RawMessage) error {
	var value any
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &value); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, value)
	case FormatYAML:
		return writeYAML(w, value)
	default:
		return writeTable(w, value)
	}
}

// WriteValue renders an arbitrary Go value, going through JSON first so map keys and
// struct tags behave the same as for server payloads.
func WriteValue(w io.Writer, format Format, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	return Write(w, format, encoded)
}

// Table renders headers and rows with the shared border style.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return encoder.Close()
}

func writeTable(w io.Writer, value any) error {
	rows, ok := tabular(value)
	if !ok {
		_, err := fmt.Fprintln(w, scalar(value))
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no records)")
		return err
	}

	headers := columns(rows)
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, header := range headers {
			line[i] = scalar(row[header])
		}
		cells = append(cells, line)
	}

	_, err := fmt.Fprintln(w, Table(headers, cells))
	return err
}

func tabular(value any) ([]map[string]any, bool) {
	switch typed := value.(type) {
	case []any:
		rows := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			rows = append(rows, row)
		}
		return rows, true
	case map[string]any:
		for _, key := range listKeys {
			if nested, ok := typed[key].([]any); ok {
				return tabular(nested)
			}
		}
		return []map[string]any{typed}, true
	default:
		return nil, false
	}
}

func columns(rows []map[string]any) []string {
	seen := map[string]bool{}
	var rest []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				rest = append(rest, key)
			}
		}
	}
	sort.Strings(rest)

	headers := make([]string, 0, len(rest))
	for _, key := range leadingColumns {
		if seen[key] {
			headers = append(headers, key)
			delete(seen, key)
		}
	}
	for _, key := range rest {
		if seen[key] {
			headers = append(headers, key)
		}
	}
	return headers
}

func scalar(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}
