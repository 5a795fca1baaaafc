package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/ids"
	"github.com/dmitrijs2005/itportal/internal/models"
)

// persistedDocument accepts every schema version ever written: version 0
// (no field) and 1 address departments by position.
type persistedDocument struct {
	Version     *int                `json:"version"`
	Accounts    []models.Account    `json:"accounts"`
	Departments []models.Department `json:"departments"`
	Employees   []persistedEmployee `json:"employees"`
	Requests    []models.Request    `json:"requests"`
}

type persistedEmployee struct {
	models.Employee
	DepartmentIndex json.RawMessage `json:"departmentIndex,omitempty"`
}

// corruption reasons, used as metric labels
const (
	reasonAbsent      = "absent"
	reasonUnparseable = "unparseable"
	reasonShape       = "invalid_shape"
	reasonVersion     = "unsupported_version"
	reasonUnreadable  = "storage_unreadable"
)

type corruptionError struct {
	reason string
	err    error
}

func (e *corruptionError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", common.ErrStorageCorrupted, e.reason)
	}
	return fmt.Sprintf("%s: %s: %v", common.ErrStorageCorrupted, e.reason, e.err)
}

func (e *corruptionError) Unwrap() error { return common.ErrStorageCorrupted }

// decode parses raw into the current schema. migrated reports whether
// the result differs from what is stored and should be written back.
func decode(raw []byte) (doc *models.Document, migrated bool, err error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false, &corruptionError{reason: reasonAbsent}
	}

	var p persistedDocument
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, &corruptionError{reason: reasonUnparseable, err: err}
	}
	if p.Accounts == nil || p.Departments == nil {
		return nil, false, &corruptionError{reason: reasonShape}
	}

	version := 0
	if p.Version != nil {
		version = *p.Version
	}
	if version < 0 || version > models.DocumentVersion {
		return nil, false, &corruptionError{reason: reasonVersion, err: fmt.Errorf("version %d", version)}
	}

	doc = &models.Document{
		Version:     models.DocumentVersion,
		Accounts:    p.Accounts,
		Departments: p.Departments,
		Employees:   make([]models.Employee, 0, len(p.Employees)),
		Requests:    p.Requests,
	}
	migrated = version != models.DocumentVersion

	// departments gain stable ids before employees are re-pointed at them
	for i := range doc.Departments {
		if doc.Departments[i].ID == "" {
			doc.Departments[i].ID = ids.NewRandom()
			migrated = true
		}
	}

	for _, pe := range p.Employees {
		e := pe.Employee
		if e.DepartmentID == "" && len(pe.DepartmentIndex) > 0 {
			if idx, ok := parseIndex(pe.DepartmentIndex); ok && idx >= 0 && idx < len(doc.Departments) {
				e.DepartmentID = doc.Departments[idx].ID
			}
			migrated = true
		}
		doc.Employees = append(doc.Employees, e)
	}

	if doc.Requests == nil {
		doc.Requests = []models.Request{}
	}
	for i := range doc.Requests {
		if doc.Requests[i].ID == "" {
			doc.Requests[i].ID = ids.NewSortable()
			migrated = true
		}
		if doc.Requests[i].Items == nil {
			doc.Requests[i].Items = []models.Item{}
		}
	}

	return doc, migrated, nil
}

// parseIndex accepts a JSON number or a numeric string ("2").
func parseIndex(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// encode serializes doc, writing empty collections as [] so the result
// always decodes again.
func encode(doc *models.Document) ([]byte, error) {
	out := *doc
	out.Version = models.DocumentVersion
	if out.Accounts == nil {
		out.Accounts = []models.Account{}
	}
	if out.Departments == nil {
		out.Departments = []models.Department{}
	}
	if out.Employees == nil {
		out.Employees = []models.Employee{}
	}
	if out.Requests == nil {
		out.Requests = []models.Request{}
	}
	return json.Marshal(&out)
}
