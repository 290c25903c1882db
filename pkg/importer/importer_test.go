package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/martindev-ke/fieldops/models"
)

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		spec    FieldSpec
		want    string
		ok      bool
	}{
		{
			"exact substring",
			[]string{"Account_Number", "Customer_Name"},
			FieldSpec{Field: "Account_Number"},
			"Account_Number", true,
		},
		{
			"case insensitive substring",
			[]string{"ACCOUNT_NUMBER_X"},
			FieldSpec{Field: "Account_Number"},
			"ACCOUNT_NUMBER_X", true,
		},
		{
			"alternate exact match",
			[]string{"A/C No", "Name"},
			FieldSpec{Field: "Account_Number", Alternates: []string{"Account No", "A/C No"}},
			"A/C No", true,
		},
		{
			"alternate is not substring matched",
			[]string{"Some Balance Column"},
			FieldSpec{Field: "Bill_Balance", Alternates: []string{"Balance"}},
			"", false,
		},
		{
			"no match",
			[]string{"Foo", "Bar"},
			FieldSpec{Field: "Meter_Number", Alternates: []string{"Meter No"}},
			"", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchHeader(tt.headers, tt.spec)
			if got != tt.want || ok != tt.ok {
				t.Errorf("matchHeader() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseDebtList(t *testing.T) {
	headers := []string{"Account_Number", "Customer_Name", "Meter_Number", "Region", "Bill_Balance"}
	rows := []map[string]string{
		{"Account_Number": "1001", "Customer_Name": "John Doe", "Meter_Number": "M-1", "Region": "Shinyalu", "Bill_Balance": "7,800"},
		{"Account_Number": "1002", "Customer_Name": "Jane Doe", "Meter_Number": "M-2", "Region": "Musoli", "Bill_Balance": "30"},
		{"Account_Number": "", "Customer_Name": "", "Bill_Balance": "999"}, // no identity, dropped
	}

	accounts, err := ParseDebtList(headers, rows)
	if err != nil {
		t.Fatalf("ParseDebtList() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}

	first := accounts[0]
	if first.AccountNo != "1001" || first.Balance != 7800 {
		t.Errorf("first = %+v", first)
	}
	if first.Status != models.DisconnectionPending {
		t.Errorf("imported status = %q, want pending", first.Status)
	}
	if got := first.Classification(); got != models.ClassDisconnectRequired {
		t.Errorf("7800 balance classified %q, want disconnect_required", got)
	}
	if got := accounts[1].Classification(); got != models.ClassCompliant {
		t.Errorf("30 balance classified %q, want compliant", got)
	}
}

func TestParseDebtListCoordinates(t *testing.T) {
	headers := []string{"Account_Number", "Customer_Name", "Coordinates"}
	rows := []map[string]string{
		{"Account_Number": "1001", "Customer_Name": "John", "Coordinates": "0.28, 34.75, 90"},
	}
	accounts, err := ParseDebtList(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	a := accounts[0]
	if a.Latitude == nil || a.Longitude == nil || a.Bearing == nil {
		t.Fatalf("coordinates not split: %+v", a)
	}
	if *a.Latitude != 0.28 || *a.Longitude != 34.75 || *a.Bearing != 90 {
		t.Errorf("got (%v, %v, %v)", *a.Latitude, *a.Longitude, *a.Bearing)
	}
}

func TestParseDebtListNoRows(t *testing.T) {
	headers := []string{"Account_Number", "Customer_Name"}
	rows := []map[string]string{
		{"Account_Number": "", "Customer_Name": ""},
	}
	_, err := ParseDebtList(headers, rows)
	if err == nil {
		t.Fatal("expected error for zero valid rows")
	}
	// the error names the expected columns so the user can fix the sheet
	for _, col := range []string{"Account_Number", "Bill_Balance"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not name column %s", err.Error(), col)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"7800", 7800},
		{"7,800.50", 7800.50},
		{"KES 1,234", 1234},
		{"KSh 500", 500},
		{"-120", -120},
		{"", 0},
		{"pending", 0},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadRowsCSV(t *testing.T) {
	csvData := "Account No,Name,Balance\n1001,John,7800\n1002,Jane,30\n"
	headers, rows, err := ReadRows(strings.NewReader(csvData), "debt_list.csv")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(headers) != 3 || len(rows) != 2 {
		t.Fatalf("got %d headers, %d rows", len(headers), len(rows))
	}
	if rows[0]["Account No"] != "1001" || rows[1]["Name"] != "Jane" {
		t.Errorf("rows = %v", rows)
	}

	accounts, err := ParseDebtList(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 || accounts[0].Balance != 7800 {
		t.Errorf("accounts = %+v", accounts)
	}
}

func TestReadRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]interface{}{
		{"Account_Number", "Customer_Name", "Bill_Balance"},
		{"1001", "John Doe", 7800},
		{"1002", "Jane Doe", 30},
	}
	for i, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	headers, rows, err := ReadRows(&buf, "debt_list.xlsx")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	accounts, err := ParseDebtList(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	if accounts[0].Name != "John Doe" || accounts[0].Balance != 7800 {
		t.Errorf("first = %+v", accounts[0])
	}
}

func TestReadRowsShortRow(t *testing.T) {
	csvData := "Account No,Name,Balance\n1001,John\n"
	headers, rows, err := ReadRows(strings.NewReader(csvData), "x.csv")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0]["Balance"] != "" {
		t.Errorf("missing cell = %q, want empty", rows[0]["Balance"])
	}
	accounts, err := ParseDebtList(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	if accounts[0].Balance != 0 {
		t.Errorf("missing balance parsed as %v, want 0", accounts[0].Balance)
	}
}
