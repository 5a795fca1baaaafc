package models

// DocumentVersion is the schema version written by this build.
//
// Version history:
//
//	0/1: departments addressed by position, employees carry departmentIndex
//	2:   departments carry stable ids, employees carry departmentId
const DocumentVersion = 2

// NotAvailable is shown in place of a dangling reference.
const NotAvailable = "N/A"

// Document is the unit of persistence: all four collections, replaced
// wholesale on load and serialized wholesale on save.
type Document struct {
	Version     int          `json:"version"`
	Accounts    []Account    `json:"accounts"`
	Departments []Department `json:"departments"`
	Employees   []Employee   `json:"employees"`
	Requests    []Request    `json:"requests"`
}

// Clone returns a deep copy, so callers can stage changes and drop them
// on validation failure.
func (d *Document) Clone() *Document {
	c := &Document{
		Version:     d.Version,
		Accounts:    append([]Account(nil), d.Accounts...),
		Departments: append([]Department(nil), d.Departments...),
		Employees:   append([]Employee(nil), d.Employees...),
		Requests:    make([]Request, len(d.Requests)),
	}
	for i, r := range d.Requests {
		r.Items = append([]Item(nil), r.Items...)
		c.Requests[i] = r
	}
	return c
}

// AccountIndex returns the position of the account with email, or -1.
func (d *Document) AccountIndex(email string) int {
	for i := range d.Accounts {
		if d.Accounts[i].Email == email {
			return i
		}
	}
	return -1
}

// FindAccount returns the account with email.
func (d *Document) FindAccount(email string) (Account, bool) {
	if i := d.AccountIndex(email); i >= 0 {
		return d.Accounts[i], true
	}
	return Account{}, false
}

// DepartmentIndex returns the position of the department with id, or -1.
func (d *Document) DepartmentIndex(id string) int {
	for i := range d.Departments {
		if d.Departments[i].ID == id {
			return i
		}
	}
	return -1
}

// DepartmentName resolves id to a department name, or NotAvailable when
// the department no longer exists.
func (d *Document) DepartmentName(id string) string {
	if i := d.DepartmentIndex(id); i >= 0 {
		return d.Departments[i].Name
	}
	return NotAvailable
}

// EmployeeIndex returns the position of the employee with id, or -1.
func (d *Document) EmployeeIndex(id string) int {
	for i := range d.Employees {
		if d.Employees[i].ID == id {
			return i
		}
	}
	return -1
}

// RequestIndex returns the position of the request with id, or -1.
func (d *Document) RequestIndex(id string) int {
	for i := range d.Requests {
		if d.Requests[i].ID == id {
			return i
		}
	}
	return -1
}
