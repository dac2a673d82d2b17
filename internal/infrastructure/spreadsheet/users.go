// Package spreadsheet parses bulk user uploads. The gateway validates the
// workbook locally before forwarding it to the backend, so an admin gets row
// level errors immediately instead of a backend rejection after upload.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Expected column order in the first sheet: Name | Email | Password | Role.
// The first row is treated as a header and skipped.
const minColumns = 4

var ErrEmptySheet = errors.New("spreadsheet has no data rows")

// UserRow is one validated row of a bulk upload.
type UserRow struct {
	Line     int
	Name     string
	Email    string
	Password string
	Role     string
}

// ParseUsers reads an xlsx workbook and returns its user rows. assignable
// reports whether a role may be granted by the uploading caller; rows with
// other roles fail validation. All row errors are collected into a single
// error so the admin can fix the file in one pass.
func ParseUsers(r io.Reader, assignable func(role string) bool) ([]UserRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var (
		users []UserRow
		bad   []string
	)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		line := i + 1

		if len(row) < minColumns {
			bad = append(bad, fmt.Sprintf("row %d: expected %d columns", line, minColumns))
			continue
		}
		u := UserRow{
			Line:     line,
			Name:     strings.TrimSpace(row[0]),
			Email:    strings.TrimSpace(row[1]),
			Password: row[2],
			Role:     strings.ToLower(strings.TrimSpace(row[3])),
		}
		switch {
		case u.Name == "":
			bad = append(bad, fmt.Sprintf("row %d: name is required", line))
		case u.Email == "" || !strings.Contains(u.Email, "@"):
			bad = append(bad, fmt.Sprintf("row %d: invalid email %q", line, u.Email))
		case u.Password == "":
			bad = append(bad, fmt.Sprintf("row %d: password is required", line))
		case !assignable(u.Role):
			bad = append(bad, fmt.Sprintf("row %d: role %q cannot be assigned", line, u.Role))
		default:
			users = append(users, u)
		}
	}

	if len(bad) > 0 {
		return nil, fmt.Errorf("invalid rows: %s", strings.Join(bad, "; "))
	}
	if len(users) == 0 {
		return nil, ErrEmptySheet
	}
	return users, nil
}
