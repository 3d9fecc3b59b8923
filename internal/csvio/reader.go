// Package csvio reads the fixed-role CSV exports consumed by the
// pipeline: whole-file tables for the small play and roster files, and
// bounded row blocks for the large per-week tracking files.
package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a fully loaded CSV file with a header index.
type Table struct {
	Header []string
	Rows   [][]string

	idx map[string]int
}

// ReadFile loads an entire CSV file into memory. Intended for the
// roster, play, and player-play files, which are small; tracking files
// go through BlockReader instead.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csvio: open %s", path)
	}
	defer f.Close()

	reader := newReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "csvio: read %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("csvio: %s has no header row", path)
	}

	return &Table{
		Header: records[0],
		Rows:   records[1:],
		idx:    indexHeader(records[0]),
	}, nil
}

// Col returns the named column of row, or "" if the column is absent
// from the header or the row is short.
func (t *Table) Col(row []string, name string) string {
	return colFrom(t.idx, row, name)
}

// HasCol reports whether the header contains the named column.
func (t *Table) HasCol(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// BlockReader streams a CSV file in blocks of at most blockSize rows,
// bounding peak memory independent of file size.
type BlockReader struct {
	f         *os.File
	reader    *csv.Reader
	header    []string
	idx       map[string]int
	blockSize int
}

// NewBlockReader opens path and reads its header row. Callers must call
// Close when done.
func NewBlockReader(path string, blockSize int) (*BlockReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csvio: open %s", path)
	}

	reader := newReader(f)
	header, err := reader.Read()
	if err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "csvio: read header of %s", path)
	}

	return &BlockReader{
		f:         f,
		reader:    reader,
		header:    header,
		idx:       indexHeader(header),
		blockSize: blockSize,
	}, nil
}

// Header returns the file's header row.
func (br *BlockReader) Header() []string { return br.header }

// Col returns the named column of row, or "" if absent.
func (br *BlockReader) Col(row []string, name string) string {
	return colFrom(br.idx, row, name)
}

// HasCol reports whether the header contains the named column.
func (br *BlockReader) HasCol(name string) bool {
	_, ok := br.idx[name]
	return ok
}

// Next returns the next block of up to blockSize rows. It returns
// io.EOF (with no rows) once the file is exhausted.
func (br *BlockReader) Next() ([][]string, error) {
	block := make([][]string, 0, br.blockSize)
	for len(block) < br.blockSize {
		record, err := br.reader.Read()
		if err == io.EOF {
			if len(block) == 0 {
				return nil, io.EOF
			}
			return block, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csvio: read row")
		}
		block = append(block, record)
	}
	return block, nil
}

// Close releases the underlying file.
func (br *BlockReader) Close() error {
	return br.f.Close()
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // allow variable fields
	return reader
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	return idx
}

func colFrom(idx map[string]int, row []string, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
