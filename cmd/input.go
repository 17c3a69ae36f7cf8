package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/spf13/cobra"
)

type recordFlags struct {
	data   string
	fields []string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", "Record as a JSON object")
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "Record field as key=value (repeatable, overrides --data)")
}

// record merges --data and --field values. Field values that parse as JSON scalars
// (numbers, booleans, null) keep that type; anything else is a string.
func (f *recordFlags) record() (domain.Record, error) {
	record := domain.Record{}
	if strings.TrimSpace(f.data) != "" {
		if err := json.Unmarshal([]byte(f.data), &record); err != nil {
			return nil, fmt.Errorf("parse --data: %w", err)
		}
		if record == nil {
			record = domain.Record{}
		}
	}

	for _, field := range f.fields {
		key, value, err := splitPair(field)
		if err != nil {
			return nil, fmt.Errorf("parse --field: %w", err)
		}
		record[key] = scalarValue(value)
	}

	return record, nil
}

func (f *recordFlags) empty() bool {
	return strings.TrimSpace(f.data) == "" && len(f.fields) == 0
}

func queryValues(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		key, value, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("parse --param: %w", err)
		}
		values.Add(key, value)
	}
	return values, nil
}

func splitPair(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", pair)
	}
	return key, value, nil
}

func scalarValue(raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		switch parsed.(type) {
		case float64, bool, nil:
			return parsed
		}
	}
	return raw
}
