package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, bool) {
	switch f := Format(s); f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return f, true
	}
	return "", false
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// File is a rendered export ready to be sent or archived.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

func Filename(startDate, endDate string, format Format) string {
	return fmt.Sprintf("time_report_%s_%s.%s", startDate, endDate, format)
}

func Render(export Export, format Format) (File, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatCSV:
		body, err = CSV(export)
	case FormatPDF:
		body, err = PDF(export)
	case FormatXLSX:
		body, err = XLSX(export)
	default:
		return File{}, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return File{}, fmt.Errorf("render %s: %w", format, err)
	}
	return File{
		Name:        Filename(export.StartDate, export.EndDate, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

var csvHeader = []string{"Date", "Employee", "Project", "Task", "Duration (hours)"}

// CSV writes one line per entry after the header. There is no total line.
func CSV(export Export) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range export.Rows {
		if err := w.Write([]string{r.Date, r.Employee, r.Project, r.Task, r.Hours()}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var tableHeader = []string{"Date", "Employee", "Project", "Task", "Duration (hrs)"}

func tableRows(export Export) [][]string {
	rows := make([][]string, 0, len(export.Rows)+1)
	for _, r := range export.Rows {
		rows = append(rows, []string{r.Date, r.Employee, r.Project, r.Task, r.Hours()})
	}
	return append(rows, []string{"", "", "", "Total", FormatHours(Hours(export.TotalSeconds()))})
}

// PDF renders the entry table with a trailing Total row.
func PDF(export Export) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.Letter)
	m.SetPageMargins(15, 10, 15)

	m.Row(14, func() {
		m.Col(12, func() {
			m.Text(export.Title(), props.Text{
				Top:   3,
				Style: consts.Bold,
				Align: consts.Center,
				Size:  16,
			})
		})
	})
	m.Row(6, func() {})

	grid := []uint{2, 3, 3, 2, 2}
	m.TableList(tableHeader, tableRows(export), props.TableList{
		HeaderProp: props.TableListContent{
			Size:      11,
			Style:     consts.Bold,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 true,
	})

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const xlsxSheet = "Time Report"

// XLSX writes the same table as PDF into a single worksheet.
func XLSX(export Export) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, err
	}

	rows := append([][]string{tableHeader}, tableRows(export)...)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "E1", bold); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(5, len(rows))
	if err != nil {
		return nil, err
	}
	first, _ := excelize.CoordinatesToCellName(1, len(rows))
	if err := f.SetCellStyle(xlsxSheet, first, last, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(xlsxSheet, "A", "E", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
