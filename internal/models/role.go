package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a named permission bucket (e.g. "Admin", "Manager")
type Role struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid"`
	Name           string `json:"name" gorm:"type:varchar(100);not null" example:"Manager"`
	NormalizedName string `json:"normalized_name" gorm:"type:varchar(100);not null;unique;index"`
	Description    string `json:"description" gorm:"type:text" example:"Can manage department access"`
	// ConcurrencyStamp is regenerated on every mutation as an
	// optimistic-concurrency signal.
	ConcurrencyStamp string    `json:"concurrency_stamp" gorm:"type:uuid"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	// Relationships
	Users []UserProfile `json:"users,omitempty" gorm:"many2many:user_roles;joinForeignKey:RoleID;joinReferences:UserID"`
}

// TableName specifies the table name for the Role model
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns the id when the database default does not
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// UserRole is the join row between a user profile and a role.
// (UserID, RoleID) is unique.
type UserRole struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	RoleID    string    `json:"role_id" gorm:"primaryKey;type:uuid"`
	CreatedBy string    `json:"created_by" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the UserRole model
func (UserRole) TableName() string {
	return "user_roles"
}

// CreateRoleRequest represents the request to create a role
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required" example:"Manager"`
	Description string `json:"description" example:"Can manage department access"`
}

// UpdateRoleRequest represents the request to update a role
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required" example:"Manager"`
	Description string `json:"description"`
}

// AssignRoleRequest represents the request to assign a role to a user
type AssignRoleRequest struct {
	RoleID string `json:"role_id" binding:"required" example:"b45c2631-fe68-4040-ad19-d8949ebad22a"`
}

// UserRoleResponse represents a user with their role names
type UserRoleResponse struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}
