// Package export renders mood history as CSV and reads it back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/utils"
)

var header = []string{"Date", "Mood", "Value", "Note"}

// Record is one parsed CSV row.
type Record struct {
	Date string
	Mood models.MoodType
	Note string
}

// CSV renders entries oldest first. Entries sharing a date keep their
// order. The note column is always quoted.
func CSV(entries []models.MoodEntry) string {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.MoodEntry) int {
		return strings.Compare(a.Date, b.Date)
	})

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s,%s,%d,%s\n", e.Date, e.Mood, e.Value(), quote(e.Note))
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ParseCSV reads a CSV produced by CSV. The Value column is checked
// against the mood but otherwise ignored. A \r\n inside a quoted note is
// read back as \n; notes saved through the entry store never contain \r.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if !slices.Equal(head, header) {
		return nil, fmt.Errorf("unexpected csv header %q", strings.Join(head, ","))
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		if !utils.ValidateDateFormat(row[0]) {
			return nil, fmt.Errorf("line %d: invalid date %q", line, row[0])
		}
		mood, err := models.ParseMood(row[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := strconv.Atoi(row[2])
		if err != nil || value != mood.Value() {
			return nil, fmt.Errorf("line %d: value %q does not match mood %s", line, row[2], mood)
		}

		records = append(records, Record{Date: row[0], Mood: mood, Note: row[3]})
	}
	return records, nil
}
