package erddap

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// table is the {"table": {...}} envelope ERDDAP returns for .json requests.
type table struct {
	ColumnNames []string
	Rows        [][]any
}

func decodeTable(body []byte) (*table, error) {
	var env struct {
		Table *struct {
			ColumnNames []string `json:"columnNames"`
			Rows        [][]any  `json:"rows"`
		} `json:"table"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if env.Table == nil {
		return nil, fmt.Errorf("response has no table")
	}
	if env.Table.Rows == nil {
		return nil, fmt.Errorf("response has no table.rows")
	}
	return &table{ColumnNames: env.Table.ColumnNames, Rows: env.Table.Rows}, nil
}

// cell returns column i of row as text. Missing and null cells are empty.
func cell(row []any, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func standardNamesFromTable(t *table) []string {
	names := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		names = append(names, cell(row, 0))
	}
	return names
}

// DatasetSummary is one dataset of a search result.
type DatasetSummary struct {
	DatasetID string `json:"dataset_id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
}

// searchColumns locates the fields of a DatasetSummary in a search result row.
type searchColumns struct {
	title, summary, datasetID int
}

// Positions in the advanced search response as of ERDDAP 2.x:
// griddap, Subset, tabledap, Make A Graph, wms, files, Title, Summary, FGDC,
// ISO 19115, Info, Background Info, RSS, Email, Institution, Dataset ID.
var defaultSearchColumns = searchColumns{title: 6, summary: 7, datasetID: 15}

// resolveSearchColumns prefers the positions named by the response header and
// falls back to the fixed ERDDAP layout for any column it cannot find.
func resolveSearchColumns(names []string) searchColumns {
	cols := defaultSearchColumns
	for i, name := range names {
		switch name {
		case "Title":
			cols.title = i
		case "Summary":
			cols.summary = i
		case "Dataset ID":
			cols.datasetID = i
		}
	}
	return cols
}

func (c searchColumns) width() int {
	return max(c.title, c.summary, c.datasetID) + 1
}

func datasetSummariesFromTable(t *table) ([]DatasetSummary, error) {
	cols := resolveSearchColumns(t.ColumnNames)
	out := make([]DatasetSummary, 0, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) < cols.width() {
			return nil, fmt.Errorf("search result row %d has %d columns, want at least %d", i, len(row), cols.width())
		}
		out = append(out, DatasetSummary{
			DatasetID: cell(row, cols.datasetID),
			Title:     cell(row, cols.title),
			Summary:   cell(row, cols.summary),
		})
	}
	return out, nil
}

const globalAttributes = "NC_GLOBAL"

// attrKind is an attribute that VariableMetadata keeps.
type attrKind int

const (
	attrLongName attrKind = iota
	attrStandardName
	attrUnits
	attrAxis
)

var recognizedAttrs = map[string]attrKind{
	"long_name":     attrLongName,
	"standard_name": attrStandardName,
	"units":         attrUnits,
	"axis":          attrAxis,
}

// VariableMetadata is the subset of a variable's attributes listed by
// list_dataset_variables.
type VariableMetadata struct {
	Name         string `json:"name"`
	LongName     string `json:"long_name"`
	StandardName string `json:"standard_name"`
	Units        string `json:"units"`
	Axis         string `json:"axis"`
}

func (m *VariableMetadata) set(kind attrKind, value string) {
	switch kind {
	case attrLongName:
		m.LongName = value
	case attrStandardName:
		m.StandardName = value
	case attrUnits:
		m.Units = value
	case attrAxis:
		m.Axis = value
	}
}

// infoRowWidth is the column count of /info/<id>/index.json rows:
// Row Type, Variable Name, Attribute Name, Data Type, Value.
const infoRowWidth = 5

// variablesFromTable rebuilds per-variable metadata from info rows. A variable
// is listed only if a "variable" row names it; attribute rows are merged by
// name wherever they appear.
func variablesFromTable(t *table) ([]VariableMetadata, error) {
	var order []string
	attrs := make(map[string]*VariableMetadata)
	seen := make(map[string]bool)

	entry := func(name string) *VariableMetadata {
		m, ok := attrs[name]
		if !ok {
			m = &VariableMetadata{Name: name}
			attrs[name] = m
		}
		return m
	}

	for i, row := range t.Rows {
		if len(row) < infoRowWidth {
			return nil, fmt.Errorf("info row %d has %d columns, want %d", i, len(row), infoRowWidth)
		}
		rowType, name := cell(row, 0), cell(row, 1)
		if name == globalAttributes {
			continue
		}
		if rowType == "variable" {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
			entry(name)
			continue
		}

		attr, value := cell(row, 2), cell(row, 4)
		if attr == "" || value == "" {
			continue
		}
		if kind, ok := recognizedAttrs[attr]; ok {
			entry(name).set(kind, value)
		}
	}

	out := make([]VariableMetadata, 0, len(order))
	for _, name := range order {
		out = append(out, *attrs[name])
	}
	return out, nil
}

var variablesHeader = []string{"variable_name", "long_name", "standard_name", "units", "axis"}

// VariablesCSV renders variable metadata with one row per variable.
func VariablesCSV(vars []VariableMetadata) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(variablesHeader); err != nil {
		return "", err
	}
	for _, v := range vars {
		if err := w.Write([]string{v.Name, v.LongName, v.StandardName, v.Units, v.Axis}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FilePayload wraps generated file content for tool callers.
type FilePayload struct {
	Type     string `json:"type"`
	MIME     string `json:"mime"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func csvPayload(filename, content string) *FilePayload {
	return &FilePayload{
		Type:     "file",
		MIME:     "text/csv",
		Filename: filename,
		Content:  content,
	}
}
