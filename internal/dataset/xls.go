package dataset

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
)

type xlsLoader struct{}

func (xlsLoader) CanLoad(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".xls"
}

// Load reads the first sheet of a legacy BIFF workbook. excelize only
// understands OOXML, so the pre-2007 format gets its own reader. The
// reader needs a seeker, so the upload is buffered first.
func (xlsLoader) Load(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xls: %w", err)
	}
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	sh, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("workbook has no sheets: %w", err)
	}

	var rows [][]string
	for i := 0; i <= sh.GetNumberRows(); i++ {
		row, err := sh.GetRow(i)
		if err != nil {
			continue
		}
		var cells []string
		for j := 0; ; j++ {
			c, err := row.GetCol(j)
			if err != nil {
				break
			}
			cells = append(cells, c.GetString())
		}
		rows = append(rows, cells)
	}

	t := &Table{Name: filepath.Base(name)}
	if len(rows) == 0 {
		return t, nil
	}
	t.Headers = cleanHeaders(rows[0])
	t.Rows = rows[1:]
	return t, nil
}
