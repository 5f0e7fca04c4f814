package formats

import (
	"bytes"
	"testing"

	aidp "github.com/aiops/aidp-sql-tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	result := &aidp.QueryResult{
		Rows: []aidp.Record{
			{"id": int64(1), "name": "alice", "active": true},
			{"id": int64(2), "name": "bob", "active": false},
		},
		RowCount: 2,
		Columns:  []string{"id", "name", "active"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	assert.Equal(t, "id,name,active\n1,alice,true\n2,bob,false\n", buf.String())
}

func TestWriteCSVNullsAndBytes(t *testing.T) {
	result := &aidp.QueryResult{
		Rows: []aidp.Record{
			{"a": nil, "b": []byte("raw"), "c": 1.5},
		},
		RowCount: 1,
		Columns:  []string{"a", "b", "c"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	assert.Equal(t, "a,b,c\n,raw,1.500000\n", buf.String())
}

func TestWriteCSVWithoutColumnOrder(t *testing.T) {
	// Without server column order the header falls back to sorted keys.
	result := &aidp.QueryResult{
		Rows:     []aidp.Record{{"b": int64(2), "a": int64(1)}},
		RowCount: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestWriteCSVEmptyResult(t *testing.T) {
	result := &aidp.QueryResult{Rows: []aidp.Record{}, Columns: []string{"x"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))
	assert.Equal(t, "x\n", buf.String())
}
