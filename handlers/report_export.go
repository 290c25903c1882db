package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/models"
)

// exportFilters narrows the merged report feed before projection.
type exportFilters struct {
	Type   string // inspection | outage | disconnection | rebilling | remark
	Status string
	From   time.Time
	To     time.Time
}

func filtersFromQuery(r *http.Request) (exportFilters, error) {
	var f exportFilters
	f.Type = r.URL.Query().Get("type")
	f.Status = r.URL.Query().Get("status")
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", v)
		}
		f.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", v)
		}
		// inclusive end of day
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}

// exportRow is one merged report with its projected columns.
type exportRow struct {
	Type      string
	Timestamp time.Time
	Cells     map[string]string
	Columns   []string // projection order for this report type
}

const exportPlaceholder = "N/A"

var exportBaseColumns = []string{"Report ID", "Type", "Date", "Time", "Status", "Officer"}

// collectExportRows loads every report category, applies the filters, merges
// and sorts newest first, and returns the union of column headers in
// first-seen order together with the projected rows. Running it twice over
// unchanged data yields identical output.
func collectExportRows(f exportFilters) ([]string, [][]string, error) {
	var rows []exportRow

	if f.Type == "" || f.Type == "inspection" {
		var items []models.Inspection
		if err := config.DB.Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, it := range items {
			rows = append(rows, inspectionRow(it))
		}
	}
	if f.Type == "" || f.Type == "outage" {
		var items []models.Outage
		if err := config.DB.Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, it := range items {
			rows = append(rows, outageRow(it))
		}
	}
	if f.Type == "" || f.Type == "disconnection" {
		var items []models.DisconnectionAccount
		if err := config.DB.Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, it := range items {
			rows = append(rows, disconnectionRow(it))
		}
	}
	if f.Type == "" || f.Type == "rebilling" {
		var items []models.RebillingRequest
		if err := config.DB.Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, it := range items {
			rows = append(rows, rebillingRow(it))
		}
	}
	if f.Type == "" || f.Type == "remark" {
		var items []models.SupervisorRemark
		if err := config.DB.Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, it := range items {
			rows = append(rows, remarkRow(it))
		}
	}

	filtered := rows[:0]
	for _, row := range rows {
		if f.Status != "" && !strings.EqualFold(row.Cells["Status"], f.Status) {
			continue
		}
		if !f.From.IsZero() && row.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && row.Timestamp.After(f.To) {
			continue
		}
		filtered = append(filtered, row)
	}
	rows = filtered

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})

	headers := append([]string(nil), exportBaseColumns...)
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[h] = true
	}
	for _, row := range rows {
		for _, col := range row.Columns {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, col := range headers {
			if v, ok := row.Cells[col]; ok && v != "" {
				line[i] = v
			} else {
				line[i] = exportPlaceholder
			}
		}
		out = append(out, line)
	}
	return headers, out, nil
}

func baseCells(id string, ts time.Time, kind, status, officer string) map[string]string {
	return map[string]string{
		"Report ID": id,
		"Type":      kind,
		"Date":      ts.Format("2006-01-02"),
		"Time":      ts.Format("15:04"),
		"Status":    status,
		"Officer":   officer,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCoords(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}
	return fmt.Sprintf("%.6f, %.6f", *lat, *lng)
}

func inspectionRow(it models.Inspection) exportRow {
	ts := time.Time(it.Timestamp)
	cells := baseCells(it.ID.String(), ts, "Meter Inspection", it.Status, it.InspectorName)
	cells["Meter Number"] = it.MeterNumber
	cells["Reading"] = formatFloat(it.Reading)
	cells["Meter Status"] = it.Status
	cells["Location"] = formatCoords(it.Latitude, it.Longitude)
	cells["Notes"] = it.Notes
	return exportRow{
		Type: "inspection", Timestamp: ts, Cells: cells,
		Columns: []string{"Meter Number", "Reading", "Meter Status", "Location", "Notes"},
	}
}

func outageRow(it models.Outage) exportRow {
	ts := time.Time(it.Timestamp)
	cells := baseCells(it.ID.String(), ts, "Outage Report", it.Status, "")
	cells["Area"] = it.Area
	cells["Feeder"] = it.Feeder
	cells["Suspected Cause"] = it.Cause
	if it.CustomersAffected > 0 {
		cells["Estimated Customers Affected"] = strconv.Itoa(it.CustomersAffected)
	}
	cells["Priority"] = it.Priority
	cells["Location"] = formatCoords(it.Latitude, it.Longitude)
	return exportRow{
		Type: "outage", Timestamp: ts, Cells: cells,
		Columns: []string{"Area", "Feeder", "Suspected Cause", "Estimated Customers Affected", "Priority", "Location"},
	}
}

func disconnectionRow(it models.DisconnectionAccount) exportRow {
	ts := time.Time(it.Timestamp)
	cells := baseCells(it.ID.String(), ts, "Disconnection", it.Status, "")
	cells["Account Number"] = it.AccountNo
	cells["Customer Name"] = it.Name
	cells["Meter Number"] = it.MeterNo
	cells["Region"] = it.Region
	cells["Outstanding Balance"] = formatFloat(it.Balance)
	cells["Action Taken"] = it.Action
	cells["Remarks"] = it.Remarks
	return exportRow{
		Type: "disconnection", Timestamp: ts, Cells: cells,
		Columns: []string{"Account Number", "Customer Name", "Meter Number", "Region", "Outstanding Balance", "Action Taken", "Remarks"},
	}
}

func rebillingRow(it models.RebillingRequest) exportRow {
	ts := time.Time(it.Timestamp)
	cells := baseCells(it.ID.String(), ts, "Rebilling Request", it.Status, it.LastActionBy)
	cells["Account Number"] = it.AccountNo
	cells["Old Bill"] = formatFloat(it.OldBill)
	cells["New Bill"] = formatFloat(it.NewBill)
	cells["Adjustment"] = formatFloat(it.AdjustmentAmount)
	cells["Reason"] = it.Reason
	return exportRow{
		Type: "rebilling", Timestamp: ts, Cells: cells,
		Columns: []string{"Account Number", "Old Bill", "New Bill", "Adjustment", "Reason"},
	}
}

func remarkRow(it models.SupervisorRemark) exportRow {
	ts := time.Time(it.Timestamp)
	cells := baseCells(it.ID.String(), ts, "Supervisor Remark", "", it.AddedBy)
	cells["Remarks"] = it.Text
	return exportRow{
		Type: "remark", Timestamp: ts, Cells: cells,
		Columns: []string{"Remarks"},
	}
}

// ListReports serves the merged, filtered feed as JSON for the reports table.
func ListReports(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	headers, rows, err := collectExportRows(f)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string, len(headers))
		for i, h := range headers {
			item[h] = row[i]
		}
		out = append(out, item)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":   len(out),
		"columns": headers,
		"data":    out,
	})
}

// ExportReportsToExcel streams the merged feed as an xlsx workbook.
func ExportReportsToExcel(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	headers, rows, err := collectExportRows(f)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	const sheet = "Field Reports"
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", sheet)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			file.SetCellValue(sheet, cell, val)
		}
	}

	filename := exportFilename("xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := file.Write(w); err != nil {
		http.Error(w, "failed to write workbook: "+err.Error(), http.StatusInternalServerError)
	}
}

// ExportReportsToCSV streams the same projection as a CSV file.
func ExportReportsToCSV(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	headers, rows, err := collectExportRows(f)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := exportFilename("csv")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	cw.Write(headers)
	for _, row := range rows {
		cw.Write(row)
	}
	cw.Flush()
}

func exportFilename(ext string) string {
	return "field_reports_" + time.Now().Format("2006-01-02") + "." + ext
}
