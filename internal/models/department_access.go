package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Access levels for a department grant. Edit implies View.
const (
	AccessLevelView = "View"
	AccessLevelEdit = "Edit"
)

// DepartmentAccess grants a user visibility into a department outside
// their own. At most one active row exists per (UserID, DepartmentName);
// this is enforced by the grant path, not by a DB constraint.
type DepartmentAccess struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         string    `json:"user_id" gorm:"not null;index;type:uuid"`
	DepartmentName string    `json:"department_name" gorm:"type:varchar(255);not null;index"`
	AccessLevel    string    `json:"access_level" gorm:"type:varchar(20);not null;default:'View'"`
	GrantedBy      string    `json:"granted_by" gorm:"type:varchar(255)"`
	IsActive       bool      `json:"is_active" gorm:"default:true;index"`
	GrantedAt      time.Time `json:"granted_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	// Relationships
	User UserProfile `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the DepartmentAccess model
func (DepartmentAccess) TableName() string {
	return "department_accesses"
}

// BeforeCreate assigns the id when the database default does not
func (d *DepartmentAccess) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// GrantAccessRequest represents the request to grant department access
type GrantAccessRequest struct {
	UserID         string `json:"user_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	DepartmentName string `json:"department_name" binding:"required" example:"Sales"`
	AccessLevel    string `json:"access_level" example:"View"`
}

// DepartmentAccessResponse represents a grant with the grantee's identity
type DepartmentAccessResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	DepartmentName string    `json:"department_name"`
	AccessLevel    string    `json:"access_level"`
	GrantedBy      string    `json:"granted_by"`
	GrantedAt      time.Time `json:"granted_at"`
}
