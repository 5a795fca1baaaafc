package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/itportal/internal/models"
)

func sampleDocument() *models.Document {
	return &models.Document{
		Version: models.DocumentVersion,
		Accounts: []models.Account{
			{FirstName: "Admin", LastName: "User", Email: "admin@example.com", Password: "deadbeef", Verified: true, Role: models.RoleAdmin},
		},
		Departments: []models.Department{{ID: "d1", Name: "Engineering", Description: "Software team"}},
		Employees: []models.Employee{
			{ID: "E-1", UserEmail: "admin@example.com", Position: "CTO", DepartmentID: "d1", HireDate: "2020-01-01"},
			{ID: "E-2", UserEmail: "admin@example.com", Position: "Intern", DepartmentID: "gone", HireDate: "2021-01-01"},
		},
		Requests: []models.Request{{
			ID: "r1", Type: models.RequestTypeEquipment, Status: models.StatusPending, Date: "2024-05-17",
			EmployeeEmail: "admin@example.com", Items: []models.Item{{Name: "Laptop", Qty: 1}, {Name: "Dock", Qty: 2}},
		}},
	}
}

func readBack(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWrite_OneSheetPerCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDocument()))

	f := readBack(t, buf.Bytes())
	assert.Equal(t, []string{SheetAccounts, SheetDepartments, SheetEmployees, SheetRequests}, f.GetSheetList())

	rows, err := f.GetRows(SheetAccounts)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"First name", "Last name", "Email", "Role", "Verified"},
		{"Admin", "User", "admin@example.com", "Admin", "yes"},
	}, rows)

	rows, err = f.GetRows(SheetEmployees)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Engineering", rows[1][3])
	assert.Equal(t, models.NotAvailable, rows[2][3])

	rows, err = f.GetRows(SheetRequests)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Laptop x1; Dock x2", rows[1][2])
}

func TestWrite_NeverExportsPasswordDigest(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDocument()))

	f := readBack(t, buf.Bytes())
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		require.NoError(t, err)
		for _, row := range rows {
			assert.NotContains(t, row, "deadbeef")
		}
	}
}

func TestWrite_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &models.Document{}))

	rows, err := readBack(t, buf.Bytes()).GetRows(SheetRequests)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.xlsx")
	require.NoError(t, WriteFile(path, sampleDocument()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetDepartments)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "Engineering", "Software team"}, rows[1])
}
