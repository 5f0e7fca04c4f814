package formats

import (
	"encoding/json"
	"fmt"
	"io"

	aidp "github.com/aiops/aidp-sql-tool"
)

// WriteJSON writes a query result as JSON: {"rows": [...], "rowcount": N}.
// This is the same shape the tool returns to agent frameworks.
func WriteJSON(w io.Writer, result *aidp.QueryResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
