package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ApprovalStatus tracks a doctor's platform approval.
// Doctors sign up as pending and are moved exactly once by an admin.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "denied"
)

// User represents a patient, doctor or admin account
type User struct {
	BaseModel
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255" json:"-"` // Never send password in JSON; empty for Google-only accounts
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Role      Role   `gorm:"size:20;index;default:'patient'" json:"role"`
	GoogleID  string `gorm:"size:255" json:"-"`

	// Patient profile fields
	DateOfBirth     *time.Time `json:"dateOfBirth,omitempty"`
	Gender          string     `gorm:"size:20" json:"gender,omitempty"`
	PhoneNumber     string     `gorm:"size:30" json:"phoneNumber,omitempty"`
	Address         string     `gorm:"size:255" json:"address,omitempty"`
	ProfileComplete bool       `gorm:"default:false" json:"profileComplete"`

	// Doctor profile fields
	Specialization  string         `gorm:"size:100" json:"specialization,omitempty"`
	ExperienceYears int            `json:"experienceYears,omitempty"`
	Education       string         `gorm:"size:255" json:"education,omitempty"`
	Bio             string         `gorm:"type:text" json:"bio,omitempty"`
	ApprovalStatus  ApprovalStatus `gorm:"size:20;index" json:"approvalStatus,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Cases         []Case         `gorm:"foreignKey:PatientID" json:"-"`
	CaseDoctors   []CaseDoctor   `gorm:"foreignKey:DoctorID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	Role            Role           `json:"role"`
	DateOfBirth     *time.Time     `json:"dateOfBirth,omitempty"`
	Gender          string         `json:"gender,omitempty"`
	PhoneNumber     string         `json:"phoneNumber,omitempty"`
	Address         string         `json:"address,omitempty"`
	ProfileComplete bool           `json:"profileComplete"`
	Specialization  string         `json:"specialization,omitempty"`
	ExperienceYears int            `json:"experienceYears,omitempty"`
	Education       string         `json:"education,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	ApprovalStatus  ApprovalStatus `json:"approvalStatus,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsApprovedDoctor reports whether the user is a doctor cleared for clinical use.
func (u *User) IsApprovedDoctor() bool {
	return u.Role == RoleDoctor && u.ApprovalStatus == ApprovalApproved
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		DateOfBirth:     u.DateOfBirth,
		Gender:          u.Gender,
		PhoneNumber:     u.PhoneNumber,
		Address:         u.Address,
		ProfileComplete: u.ProfileComplete,
		Specialization:  u.Specialization,
		ExperienceYears: u.ExperienceYears,
		Education:       u.Education,
		Bio:             u.Bio,
		ApprovalStatus:  u.ApprovalStatus,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
