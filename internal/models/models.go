// Package models defines the portal's persisted records and the document
// that groups them.
package models

// Role of an account.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Account is a portal user. Email is the unique, case-sensitive key.
type Account struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	// Password holds the hex digest, never the plaintext.
	Password string `json:"password"`
	Verified bool   `json:"verified"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the account carries the Admin role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// FullName joins first and last names.
func (a Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Department is addressed by a stable generated ID.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Employee links an account to a department. DepartmentID is checked
// only when the employee is written; it may dangle afterwards.
type Employee struct {
	ID           string `json:"id"`
	UserEmail    string `json:"userEmail"`
	Position     string `json:"position"`
	DepartmentID string `json:"departmentId"`
	HireDate     string `json:"hireDate"`
}

// RequestStatus is the approval state of a request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// Request types accepted by the portal.
const (
	RequestTypeEquipment = "Equipment"
	RequestTypeLeave     = "Leave"
	RequestTypeResources = "Resources"
)

// RequestTypes lists the accepted request types in display order.
var RequestTypes = []string{RequestTypeEquipment, RequestTypeLeave, RequestTypeResources}

// Item is one line of a request.
type Item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Request is a purchase/IT request submitted by an account.
type Request struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Items         []Item        `json:"items"`
	Status        RequestStatus `json:"status"`
	Date          string        `json:"date"`
	EmployeeEmail string        `json:"employeeEmail"`
}
