package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
)

// SkippedRow describes a snapshot line that could not be loaded
type SkippedRow struct {
	Line   int
	Reason string
}

// LoadReport summarizes a snapshot read
type LoadReport struct {
	Loaded      int
	HeaderFound bool
	Skipped     []SkippedRow
}

// EncodeRow renders a contact in persisted field order. isDeleted is 0 or 1
// and deletedAt is Unix seconds, 0 for live contacts.
func EncodeRow(c schema.Contact) []string {
	flag, deletedAt := "0", "0"
	if c.IsDeleted {
		flag = "1"
		deletedAt = strconv.FormatInt(c.DeletedAt.Unix(), 10)
	}
	return []string{strconv.Itoa(c.ID), c.Name, c.Phone, c.Email, flag, deletedAt}
}

// DecodeRow parses the first len(schema.Columns) fields of a row. The caller
// checks the field count.
func DecodeRow(fields []string) (schema.Contact, error) {
	if len(fields) < len(schema.Columns) {
		return schema.Contact{}, fmt.Errorf("expected %d fields, got %d", len(schema.Columns), len(fields))
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return schema.Contact{}, fmt.Errorf("bad id %q", fields[0])
	}

	var deleted bool
	switch strings.TrimSpace(fields[4]) {
	case "0":
	case "1":
		deleted = true
	default:
		return schema.Contact{}, fmt.Errorf("bad isDeleted %q", fields[4])
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(fields[5]), 10, 64)
	if err != nil {
		return schema.Contact{}, fmt.Errorf("bad deletedAt %q", fields[5])
	}

	c := schema.Contact{
		ID:        id,
		Name:      fields[1],
		Phone:     fields[2],
		Email:     fields[3],
		IsDeleted: deleted,
	}
	if deleted {
		c.DeletedAt = time.Unix(secs, 0)
	}
	return c, nil
}

// WriteCSV writes the header line and one row per record. Fields are quoted
// only when they contain a comma, a quote or a line break.
func WriteCSV(w io.Writer, records []schema.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Columns); err != nil {
		return err
	}
	for _, c := range records {
		if err := cw.Write(EncodeRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// isHeader reports whether a row is a header line rather than data
func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), schema.FieldID)
}

// ReadCSV reads contact rows. A header on the first row is detected and
// skipped; files without one load the same way. Rows with the wrong field
// count or bad values are skipped and listed in the report. A row with broken
// quoting is skipped on its own line and reading resumes on the next one.
func ReadCSV(r io.Reader) ([]schema.Contact, LoadReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, LoadReport{}, err
	}

	var (
		records []schema.Contact
		report  LoadReport
		first   = true
		// offset and lineBase locate the current reader within data
		offset   int
		lineBase int
	)

	cr := newCSVReader(data)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, report, err
			}
			report.Skipped = append(report.Skipped, SkippedRow{Line: lineBase + perr.StartLine, Reason: perr.Err.Error()})
			first = false

			// An unterminated quote consumes the rest of the input
			offset = skipLines(data, offset, perr.StartLine)
			lineBase += perr.StartLine
			cr = newCSVReader(data[offset:])
			continue
		}

		line, _ := cr.FieldPos(0)
		line += lineBase
		if first {
			first = false
			if isHeader(fields) {
				report.HeaderFound = true
				continue
			}
		}

		if len(fields) != len(schema.Columns) {
			report.Skipped = append(report.Skipped, SkippedRow{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(schema.Columns), len(fields)),
			})
			continue
		}

		c, err := DecodeRow(fields)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		records = append(records, c)
	}

	report.Loaded = len(records)
	return records, report, nil
}

func newCSVReader(data []byte) *csv.Reader {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	return cr
}

// skipLines returns the offset just past n line breaks from offset, or
// len(data) when the input ends first.
func skipLines(data []byte, offset, n int) int {
	for ; n > 0; n-- {
		i := bytes.IndexByte(data[offset:], '\n')
		if i < 0 {
			return len(data)
		}
		offset += i + 1
	}
	return offset
}
