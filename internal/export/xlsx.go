// Package export writes the portal document to an XLSX workbook, one
// sheet per collection. Password digests are never exported.
package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/itportal/internal/filex"
	"github.com/dmitrijs2005/itportal/internal/models"
)

// Sheet names in workbook order.
const (
	SheetAccounts    = "Accounts"
	SheetDepartments = "Departments"
	SheetEmployees   = "Employees"
	SheetRequests    = "Requests"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// Write renders doc as a workbook into w.
func Write(w io.Writer, doc *models.Document) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	for i, s := range sheets(doc) {
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := file.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", s.name, err)
		}

		for r, row := range append([][]any{s.header}, s.rows...) {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := file.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", s.name, r+1, err)
			}
		}
	}
	file.SetActiveSheet(0)

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to path, replacing any existing file.
func WriteFile(path string, doc *models.Document) (err error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, doc)
}

func sheets(doc *models.Document) []sheet {
	accounts := sheet{name: SheetAccounts, header: []any{"First name", "Last name", "Email", "Role", "Verified"}}
	for _, a := range doc.Accounts {
		accounts.rows = append(accounts.rows, []any{a.FirstName, a.LastName, a.Email, string(a.Role), yesNo(a.Verified)})
	}

	departments := sheet{name: SheetDepartments, header: []any{"ID", "Name", "Description"}}
	for _, d := range doc.Departments {
		departments.rows = append(departments.rows, []any{d.ID, d.Name, d.Description})
	}

	employees := sheet{name: SheetEmployees, header: []any{"ID", "Email", "Position", "Department", "Hire date"}}
	for _, e := range doc.Employees {
		employees.rows = append(employees.rows, []any{e.ID, e.UserEmail, e.Position, doc.DepartmentName(e.DepartmentID), e.HireDate})
	}

	requests := sheet{name: SheetRequests, header: []any{"ID", "Type", "Items", "Status", "Date", "Employee"}}
	for _, r := range doc.Requests {
		requests.rows = append(requests.rows, []any{r.ID, r.Type, FormatItems(r.Items), string(r.Status), r.Date, r.EmployeeEmail})
	}

	return []sheet{accounts, departments, employees, requests}
}

// FormatItems renders items as "name x qty" separated by "; ".
func FormatItems(items []models.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Name+" x"+strconv.Itoa(it.Qty))
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
