package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Format
		wantErr bool
	}{
		{raw: "", want: FormatTable},
		{raw: "TABLE", want: FormatTable},
		{raw: "json", want: FormatJSON},
		{raw: "yml", want: FormatYAML},
		{raw: " yaml ", want: FormatYAML},
		{raw: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestWriteTableOrdersIdentityColumnsFirst(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatTable, json.RawMessage(`[
		{"capacity":120,"name":"North","warehouseId":1},
		{"name":"South","warehouseId":2,"active":true}
	]`))
	require.NoError(t, err)

	out := buf.String()
	header := strings.Split(out, "\n")[1]
	assert.Less(t, strings.Index(header, "warehouseId"), strings.Index(header, "name"))
	assert.Less(t, strings.Index(header, "name"), strings.Index(header, "active"))
	assert.Less(t, strings.Index(header, "active"), strings.Index(header, "capacity"))
	assert.Contains(t, out, "North")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "true")
}

func TestWriteTableUnwrapsPagedPayload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatTable, json.RawMessage(`{"total":1,"records":[{"userId":3,"username":"carol"}]}`))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "carol")
	assert.NotContains(t, buf.String(), "total")
}

func TestWriteTableEmptyAndScalar(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, json.RawMessage(`[]`)))
	assert.Equal(t, "(no records)\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatTable, json.RawMessage(`true`)))
	assert.Equal(t, "true\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatTable, nil))
	assert.Equal(t, "\n", buf.String())
}

func TestWriteJSONAndYAML(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{"sensorId":"s-1","temperature":21.5}`)

	var jsonBuf bytes.Buffer
	require.NoError(t, Write(&jsonBuf, FormatJSON, payload))
	assert.JSONEq(t, string(payload), jsonBuf.String())

	var yamlBuf bytes.Buffer
	require.NoError(t, Write(&yamlBuf, FormatYAML, payload))
	assert.Equal(t, "sensorId: s-1\ntemperature: 21.5\n", yamlBuf.String())
}

func TestWriteRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, FormatJSON, json.RawMessage(`{`))
	assert.ErrorContains(t, err, "decode payload")
}

func TestWriteValueGoesThroughJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteValue(&buf, FormatYAML, struct {
		Path string `json:"path"`
	}{Path: "/login"}))
	assert.Equal(t, "path: /login\n", buf.String())
}
