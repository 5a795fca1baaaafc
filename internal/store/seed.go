package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itportal/internal/cryptox"
	"github.com/dmitrijs2005/itportal/internal/ids"
	"github.com/dmitrijs2005/itportal/internal/models"
)

// Bootstrap administrator credentials written by Seed.
const (
	SeedAdminEmail    = "admin@example.com"
	SeedAdminPassword = "Password123!"
)

// seedDocument builds the deterministic bootstrap document: one verified
// Admin and the Engineering and HR departments.
func seedDocument(ctx context.Context, h cryptox.Hasher) (*models.Document, error) {
	digest, err := h.Digest(ctx, SeedAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("digest seed password: %w", err)
	}

	return &models.Document{
		Version: models.DocumentVersion,
		Accounts: []models.Account{{
			FirstName: "Admin",
			LastName:  "User",
			Email:     SeedAdminEmail,
			Password:  digest,
			Verified:  true,
			Role:      models.RoleAdmin,
		}},
		Departments: []models.Department{
			{ID: ids.NewRandom(), Name: "Engineering", Description: "Software team"},
			{ID: ids.NewRandom(), Name: "HR", Description: "Human Resources"},
		},
		Employees: []models.Employee{},
		Requests:  []models.Request{},
	}, nil
}
