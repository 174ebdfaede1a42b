package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile is the local identity record for a directory user.
// It is created on first successful login and updated on every
// subsequent login with the merge-if-nonempty policy.
type UserProfile struct {
	// Primary key
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	Username string `json:"username" gorm:"type:varchar(255);not null;unique;index"`

	// Localized names (Thai + English) as delivered by the HR API
	DetailTHFirstName string `json:"detail_th_first_name" gorm:"type:varchar(255)"`
	DetailTHLastName  string `json:"detail_th_last_name" gorm:"type:varchar(255)"`
	DetailENFirstName string `json:"detail_en_first_name" gorm:"type:varchar(255)"`
	DetailENLastName  string `json:"detail_en_last_name" gorm:"type:varchar(255)"`

	// Organization info
	UserEmail      string `json:"user_email" gorm:"type:varchar(255)"`
	PlantName      string `json:"plant_name" gorm:"type:varchar(255)"`
	DepartmentName string `json:"department_name" gorm:"type:varchar(255);index"`
	UserCode       string `json:"user_code" gorm:"type:varchar(100);index"` // external directory user code

	// Login tracking
	FirstLoginAt *time.Time `json:"first_login_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Roles              []Role             `json:"roles,omitempty" gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	DepartmentAccesses []DepartmentAccess `json:"department_accesses,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the UserProfile model
func (UserProfile) TableName() string {
	return "user_profiles"
}

// BeforeCreate assigns the id when the database default does not
func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// ProfileCandidate carries the field values gathered from the directory
// and the enrichment API during a login. Blank fields are ignored by the
// merge policy.
type ProfileCandidate struct {
	DetailTHFirstName string
	DetailTHLastName  string
	DetailENFirstName string
	DetailENLastName  string
	UserEmail         string
	PlantName         string
	DepartmentName    string
	UserCode          string
}

// UpdateProfileRequest represents the self-service profile edit request
type UpdateProfileRequest struct {
	DetailTHFirstName string `json:"detail_th_first_name"`
	DetailTHLastName  string `json:"detail_th_last_name"`
	DetailENFirstName string `json:"detail_en_first_name"`
	DetailENLastName  string `json:"detail_en_last_name"`
	UserEmail         string `json:"user_email"`
	PlantName         string `json:"plant_name"`
	DepartmentName    string `json:"department_name"`
}
