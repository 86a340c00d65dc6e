package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

const crxSample = `b,30.83,0,u,g,w,v,1.25,t,t,01,f,g,00202,0,+
a,58.67,4.46,u,g,q,h,3.04,t,t,06,f,g,00043,560,+
a,24.50,0.5,u,g,q,h,1.5,t,f,0,f,g,00280,824,+
b,27.83,1.54,u,g,w,v,3.75,t,t,05,t,g,00100,3,+
?,20.17,5.625,u,g,w,v,1.71,t,f,0,f,s,00120,0,-
b,32.08,4,u,g,m,v,2.5,t,f,0,t,g,00360,0,-
b,?,1.5,u,g,cc,v,0.25,t,f,0,f,g,00200,0,-
a,22.92,11.585,u,g,cc,v,0.04,t,f,0,f,g,00080,1349,-
`

func TestReadSpecExample(t *testing.T) {
	table, err := Read(strings.NewReader("a,1,?\nb,2,yes\na,?,no\n"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, 3, table.NumCols())
	assert.Equal(t, []string{"0", "1", "2"}, table.Schema.Names())

	// raw values are preserved exactly
	assert.Equal(t, Text("a"), table.Cell(0, 0))
	assert.Equal(t, KindNumber, table.Cell(0, 1).Kind)
	assert.Equal(t, 1.0, table.Cell(0, 1).Num)
	assert.Equal(t, Text("?"), table.Cell(0, 2))
}

func TestReadCRXSample(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	table, err := Read(strings.NewReader(crxSample), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 8, table.NumRows())
	assert.Equal(t, 16, table.NumCols())
	assert.Equal(t, 15, table.Schema.TargetIndex())

	// "00202" keeps its leading zeros
	assert.Equal(t, "00202", table.Cell(0, 13).Raw)

	// column 1 holds a placeholder, so raw inference leaves it categorical
	assert.Equal(t, Categorical, table.Schema.Columns[1].Kind)
	assert.Equal(t, Numeric, table.Schema.Columns[2].Kind)
	assert.Equal(t, Categorical, table.Schema.Columns[15].Kind)
	assert.Len(t, warnings, 1)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{name: "ragged row", input: "a,1,x\nb,2\n", wantLine: 2},
		{name: "empty input", input: "", wantLine: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), DefaultOptions())
			require.Error(t, err)

			var accessErr *errors.DataAccessError
			require.True(t, errors.As(err, &accessErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantLine, accessErr.Line)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crx.data")
	require.NoError(t, os.WriteFile(path, []byte(crxSample), 0o644))

	table, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, table.NumRows())

	_, err = Load(filepath.Join(dir, "missing.data"), DefaultOptions())
	var accessErr *errors.DataAccessError
	require.True(t, errors.As(err, &accessErr))
	assert.Contains(t, accessErr.Path, "missing.data")
	assert.True(t, os.IsNotExist(accessErr.Err))
}

func TestReadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = ';'
	opts.Header = true
	opts.Kinds = map[int]ColumnKind{1: Categorical}

	table, err := Read(strings.NewReader("gender; age ;label\na;1;+\nb;2;-\n"), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"gender", "age", "label"}, table.Schema.Names())
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, Categorical, table.Schema.Columns[1].Kind)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	table, err := Read(strings.NewReader("a,1,?\nb,2,yes\n"), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Sanitize(table, "?"), "?"))
	assert.Equal(t, "a,1,?\nb,2,yes\n", buf.String())
}
