package formats

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	aidp "github.com/aiops/aidp-sql-tool"
)

// WriteCSV writes a query result as CSV with a header row. Columns follow
// the server-returned order when the result carries it, otherwise the sorted
// keys of the first record.
func WriteCSV(w io.Writer, result *aidp.QueryResult) error {
	columns := result.Columns
	if len(columns) == 0 && len(result.Rows) > 0 {
		for col := range result.Rows[0] {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}

	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range result.Rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = formatCSVValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// formatCSVValue converts a record value to a string for CSV output.
func formatCSVValue(val interface{}) string {
	if val == nil {
		return ""
	}

	switch v := val.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%f", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
