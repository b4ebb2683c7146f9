package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV renders header + rows as RFC4180 CSV prefixed with a UTF-8 BOM
// so spreadsheet tools pick up the encoding.
func CSV(header []string, rows [][]string) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(utf8BOM)

	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFilename builds "{name}_{unixMillis}.csv".
func CSVFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d.csv", name, now.UnixMilli())
}
