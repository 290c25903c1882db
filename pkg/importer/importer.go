// Package importer turns an uploaded debt-list spreadsheet into
// disconnection account records. Header matching is deliberately loose:
// billing exports the same data under slightly different column names every
// month, so each logical field matches by case-insensitive substring first
// and a table of literal alternates second.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/utils"
)

// FieldSpec maps one logical field to the headers that may carry it.
type FieldSpec struct {
	Field      string   // logical name, matched by substring
	Alternates []string // literal fallback headers, matched exactly
}

// DebtListFields is the matching table for the daily debt list.
var DebtListFields = []FieldSpec{
	{Field: "Account_Number", Alternates: []string{"Account No", "A/C No", "AccountNo", "Account Number"}},
	{Field: "Customer_Name", Alternates: []string{"Name", "Client Name", "Customer"}},
	{Field: "Meter_Number", Alternates: []string{"Meter No", "MeterNo", "Meter Number"}},
	{Field: "Region", Alternates: []string{"Supply Location", "Area", "Location"}},
	{Field: "Bill_Balance", Alternates: []string{"Balance", "Debt Amount", "Outstanding", "Current Balance"}},
	{Field: "Previous_Month_Balance", Alternates: []string{"Prev Balance", "Prior Balance", "Last Month Balance"}},
	{Field: "Coordinates", Alternates: []string{"GPS", "Lat/Lng", "Geo"}},
}

// MatchHeaders builds the logical-field -> actual-header mapping for one
// sheet. Fields with no matching header are absent from the result.
func MatchHeaders(headers []string, specs []FieldSpec) map[string]string {
	mapping := make(map[string]string, len(specs))
	for _, spec := range specs {
		if h, ok := matchHeader(headers, spec); ok {
			mapping[spec.Field] = h
		}
	}
	return mapping
}

func matchHeader(headers []string, spec FieldSpec) (string, bool) {
	needle := strings.ToLower(spec.Field)
	for _, h := range headers {
		if strings.Contains(strings.ToLower(strings.TrimSpace(h)), needle) {
			return h, true
		}
	}
	for _, alt := range spec.Alternates {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), alt) {
				return h, true
			}
		}
	}
	return "", false
}

// ReadRows reads the uploaded file into header-keyed rows. XLSX files are
// read from the first sheet only; a .csv filename switches to the CSV path.
// Duplicate headers keep the first column seen.
func ReadRows(r io.Reader, filename string) ([]string, []map[string]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return readCSV(r)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}
	return tabulate(rows)
}

func readCSV(r io.Reader) ([]string, []map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read CSV: %w", err)
	}
	return tabulate(rows)
}

func tabulate(rows [][]string) ([]string, []map[string]string, error) {
	if len(rows) == 0 {
		return nil, nil, errors.New("file is empty")
	}
	headers := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if _, seen := m[h]; seen {
				continue
			}
			if i < len(row) {
				m[h] = row[i]
			} else {
				m[h] = ""
			}
		}
		out = append(out, m)
	}
	return headers, out, nil
}

// ParseDebtList normalizes raw rows into disconnection accounts. Rows missing
// both the account number and the customer name are discarded; zero surviving
// rows is an error naming the expected columns.
func ParseDebtList(headers []string, rows []map[string]string) ([]models.DisconnectionAccount, error) {
	mapping := MatchHeaders(headers, DebtListFields)

	var accounts []models.DisconnectionAccount
	for _, row := range rows {
		acctNo := strings.TrimSpace(row[mapping["Account_Number"]])
		name := strings.TrimSpace(row[mapping["Customer_Name"]])
		if acctNo == "" && name == "" {
			continue
		}

		a := models.DisconnectionAccount{
			AccountNo: acctNo,
			Name:      name,
			MeterNo:   strings.TrimSpace(row[mapping["Meter_Number"]]),
			Region:    strings.TrimSpace(row[mapping["Region"]]),
			Balance:   ParseNumber(row[mapping["Bill_Balance"]]),
			Status:    models.DisconnectionPending,
		}
		if v := strings.TrimSpace(row[mapping["Previous_Month_Balance"]]); v != "" {
			prior := ParseNumber(v)
			a.PriorMonthBalance = &prior
		}
		if c := strings.TrimSpace(row[mapping["Coordinates"]]); c != "" {
			a.Latitude, a.Longitude, a.Bearing = utils.SplitCoordinate(c)
		}
		accounts = append(accounts, a)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("no valid rows found; expected columns: %s",
			strings.Join(ExpectedColumns(DebtListFields), ", "))
	}
	return accounts, nil
}

// ExpectedColumns lists the logical column names for user-facing errors.
func ExpectedColumns(specs []FieldSpec) []string {
	cols := make([]string, len(specs))
	for i, s := range specs {
		cols[i] = s.Field
	}
	return cols
}

// ParseNumber parses a numeric cell, tolerating currency prefixes and
// thousands separators. Unparseable cells fall back to 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"KES", "KSh", "Ksh", "KSH"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
