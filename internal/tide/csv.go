package tide

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CSVSource reads hourly tide readings from a CSV file, one reading per
// row. The last field of each row is parsed as the level, so a leading
// timestamp column (like the PDT column in the Comox export) is tolerated.
// A first row whose last field is not numeric is treated as a header.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string { return "csv:" + s.Path }

func (s *CSVSource) Levels() ([]float64, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open tide csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read tide csv: %w", err)
	}

	levels := make([]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(rec[len(rec)-1], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("tide csv row %d: %w", i+1, err)
		}
		levels = append(levels, v)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("tide csv %s holds no readings", s.Path)
	}
	return levels, nil
}
