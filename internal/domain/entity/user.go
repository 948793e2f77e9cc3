package entity

import (
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a user in the school system. Students carry standard and
// division; teachers and parents leave them empty.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255;unique;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"`
	Role      enum.Role      `gorm:"size:20;not null;index" json:"role"`
	Standard  *string        `gorm:"size:20;index" json:"standard,omitempty"`
	Division  *string        `gorm:"size:20" json:"division,omitempty"`
	CustomID  *string        `gorm:"size:50;unique" json:"custom_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// ParentLink relates a parent user to a student user. A parent may only view
// fee data of students they are linked to.
type ParentLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ParentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_parent_student" json:"parent_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_parent_student;index" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Parent  User `gorm:"foreignKey:ParentID" json:"-"`
	Student User `gorm:"foreignKey:StudentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new parent link
func (l *ParentLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ParentLink model
func (ParentLink) TableName() string {
	return "parent_links"
}
