package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/TpouHuK/halstead-js/pkg/models"
)

// CSV export file names.
const (
	OperatorsCSV  = "operators.csv"
	OperandsCSV   = "operands.csv"
	PropertiesCSV = "properties.csv"
)

// WriteTallyCSV writes one row per token: file, token, count. Rows follow
// the file order of pm and SortedTally within a file.
func WriteTallyCSV(w io.Writer, column string, pm *models.ProjectMetrics, pick func(*models.FileMetrics) map[string]int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", column, "count"}); err != nil {
		return err
	}
	for i := range pm.Files {
		fm := &pm.Files[i]
		for _, e := range SortedTally(pick(fm)) {
			if err := cw.Write([]string{fm.Path, e.Token, strconv.Itoa(e.Count)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePropertiesCSV writes the labelled properties of every file.
func WritePropertiesCSV(w io.Writer, pm *models.ProjectMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "property", "value"}); err != nil {
		return err
	}
	for _, fm := range pm.Files {
		for _, p := range fm.Properties {
			if err := cw.Write([]string{fm.Path, p.Label, p.Value}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes operators.csv, operands.csv and properties.csv into dir
// and returns the paths written.
func ExportCSV(dir string, pm *models.ProjectMetrics) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{OperatorsCSV, func(w io.Writer) error {
			return WriteTallyCSV(w, "operator", pm, func(fm *models.FileMetrics) map[string]int { return fm.Operators })
		}},
		{OperandsCSV, func(w io.Writer) error {
			return WriteTallyCSV(w, "operand", pm, func(fm *models.FileMetrics) map[string]int { return fm.Operands })
		}},
		{PropertiesCSV, func(w io.Writer) error {
			return WritePropertiesCSV(w, pm)
		}},
	}

	paths := make([]string, 0, len(writers))
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		if err := writeFile(path, wr.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
