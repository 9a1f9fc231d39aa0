// internal/adp/loader.go
package adp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	nameColumn = "Name"
	adpColumn  = "ADP"

	utf8BOM = "\ufeff"
)

// Table maps a player name, as written in the reference file, to its ADP.
type Table map[string]float64

// Names returns the table keys.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return names
}

// LoadStats describes what happened while reading a reference file.
type LoadStats struct {
	Rows      int
	Loaded    int
	Skipped   int
	Overrides int
}

// LoadCSV reads the ADP reference table from path.
func LoadCSV(path string) (Table, error) {
	table, _, err := LoadCSVWithStats(path)
	return table, err
}

// LoadCSVWithStats is LoadCSV that also reports row counts.
func LoadCSVWithStats(path string) (Table, LoadStats, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open adp file: %w", err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads a header row containing Name and ADP columns followed by data
// rows. Rows whose ADP is not a number are skipped. A repeated name replaces the
// earlier value.
func ParseCSV(r io.Reader) (Table, LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, errors.New("adp file is empty")
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}

	idx := func(name string) int {
		for i, h := range header {
			h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
			if strings.EqualFold(h, name) {
				return i
			}
		}
		return -1
	}

	iName := idx(nameColumn)
	iADP := idx(adpColumn)
	if iName < 0 || iADP < 0 {
		return nil, stats, fmt.Errorf("required columns missing (need %s, %s)", nameColumn, adpColumn)
	}

	table := make(Table)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		if iName >= len(rec) || iADP >= len(rec) {
			stats.Skipped++
			continue
		}

		name := strings.TrimSpace(rec[iName])
		if name == "" {
			stats.Skipped++
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(rec[iADP]), 64)
		if err != nil {
			stats.Skipped++
			continue
		}

		if _, exists := table[name]; exists {
			stats.Overrides++
		}
		table[name] = value
	}

	stats.Loaded = len(table)
	return table, stats, nil
}
