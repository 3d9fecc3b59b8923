package csvio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2,3\n4,5,6\n")

	table, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2", table.Col(table.Rows[0], "b"))
	assert.Equal(t, "6", table.Col(table.Rows[1], "c"))
	assert.Equal(t, "", table.Col(table.Rows[0], "missing"))
	assert.True(t, table.HasCol("a"))
	assert.False(t, table.HasCol("z"))
}

func TestReadFile_ShortRow(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", table.Col(table.Rows[0], "c"))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestReadFile_Empty(t *testing.T) {
	path := writeCSV(t, "")
	_, err := ReadFile(path)
	require.Error(t, err)
}

func TestBlockReader(t *testing.T) {
	path := writeCSV(t, "id,v\n1,a\n2,b\n3,c\n4,d\n5,e\n")

	br, err := NewBlockReader(path, 2)
	require.NoError(t, err)
	defer br.Close()

	assert.Equal(t, []string{"id", "v"}, br.Header())

	var blocks [][][]string
	for {
		block, err := br.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		blocks = append(blocks, block)
	}

	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0], 2)
	assert.Len(t, blocks[1], 2)
	assert.Len(t, blocks[2], 1)
	assert.Equal(t, "e", br.Col(blocks[2][0], "v"))
}

func TestBlockReader_EmptyBody(t *testing.T) {
	path := writeCSV(t, "id,v\n")

	br, err := NewBlockReader(path, 10)
	require.NoError(t, err)
	defer br.Close()

	_, err = br.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBlockReader_MissingFile(t *testing.T) {
	_, err := NewBlockReader(filepath.Join(t.TempDir(), "nope.csv"), 10)
	require.Error(t, err)
}
