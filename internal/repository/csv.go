package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"FinCast/internal/domain/models"
	"FinCast/pkg/util"
)

var ErrNoDateColumn = errors.New("csv: first column must be a date")

// ReadFrameCSV parses a price table whose first column holds dates and whose
// remaining columns are numeric, e.g. Date,Open,High,Low,Close,Volume.
// Empty cells become NaN. Rows are sorted ascending by date if needed.
func ReadFrameCSV(r io.Reader) (*models.Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.ErrEmptyFrame
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("csv header: need a date column and at least one value column")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if !strings.EqualFold(strings.TrimSpace(header[0]), "date") {
		return nil, fmt.Errorf("%w, got %q", ErrNoDateColumn, header[0])
	}
	columns := make([]string, len(header)-1)
	for i, h := range header[1:] {
		columns[i] = strings.TrimSpace(h)
	}

	var index []time.Time
	values := make(map[string][]float64, len(columns))
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		t, ok := util.ParseTime(strings.TrimSpace(rec[0]))
		if !ok {
			return nil, fmt.Errorf("csv line %d: bad date %q", line, rec[0])
		}
		index = append(index, t)
		for i, name := range columns {
			v, err := parseCell(rec[i+1])
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %s: %w", line, name, err)
			}
			values[name] = append(values[name], v)
		}
	}
	if len(index) == 0 {
		return nil, models.ErrEmptyFrame
	}

	if !ascending(index) {
		index, values = sortByDate(index, columns, values)
	}
	return models.NewFrame(index, columns, values)
}

// ReadFrameFile reads a CSV price table from path, or stdin when path is "-".
func ReadFrameFile(path string) (*models.Frame, error) {
	if path == "-" {
		return ReadFrameCSV(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadFrameCSV(f)
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func ascending(index []time.Time) bool {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return false
		}
	}
	return true
}

// sortByDate reorders rows by date. Duplicate dates are left for NewFrame to reject.
func sortByDate(index []time.Time, columns []string, values map[string][]float64) ([]time.Time, map[string][]float64) {
	order := make([]int, len(index))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return index[order[a]].Before(index[order[b]]) })

	outIdx := make([]time.Time, len(index))
	outVals := make(map[string][]float64, len(columns))
	for _, name := range columns {
		outVals[name] = make([]float64, len(index))
	}
	for dst, src := range order {
		outIdx[dst] = index[src]
		for _, name := range columns {
			outVals[name][dst] = values[name][src]
		}
	}
	return outIdx, outVals
}
