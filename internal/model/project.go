package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// RiskLevel is the optional health classification of a project.
type RiskLevel string

const (
	RiskStable   RiskLevel = "stable"
	RiskElevated RiskLevel = "elevated"
	RiskCritical RiskLevel = "critical"
)

// Valid reports whether r is empty (unset) or one of the known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case "", RiskStable, RiskElevated, RiskCritical:
		return true
	}
	return false
}

// Project is a workspace owned by one user and shared with members.
// OwnerID never changes after creation.
type Project struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Members     []string  `json:"members" db:"-"`
	Color       string    `json:"color,omitempty" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	RiskLevel   RiskLevel `json:"riskLevel,omitempty" db:"risk_level"`
}

// HasMember reports whether userID owns the project or is listed as a member.
func (p Project) HasMember(userID string) bool {
	return p.OwnerID == userID || slices.Contains(p.Members, userID)
}

// IsOwner reports whether userID is the project owner.
func (p Project) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// Validate checks the fields a project must carry before it is persisted.
func (p Project) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("project name must not be empty"))
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		errs = append(errs, errors.New("project owner must not be empty"))
	}
	if !p.RiskLevel.Valid() {
		errs = append(errs, fmt.Errorf("invalid risk level %q", p.RiskLevel))
	}
	return errors.Join(errs...)
}
