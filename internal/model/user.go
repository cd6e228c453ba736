package model

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User role constants
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// UserRoleValidator backs the "userrole" binding tag.
var UserRoleValidator validator.Func = func(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User represents a system user. Every doctor and patient has exactly one
// user row; the role decides which profile row exists alongside it.
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	FullName     string `json:"full_name" db:"full_name"`
	Role         string `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Doctor is the doctor profile attached to a user with RoleDoctor.
type Doctor struct {
	Base
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Specialization string    `json:"specialization" db:"specialization"`
}

// Patient is the patient profile attached to a user with RolePatient.
// A patient has at most one assigned doctor.
type Patient struct {
	Base
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	AssignedDoctorID *uuid.UUID `json:"assigned_doctor_id,omitempty" db:"assigned_doctor_id"`
}

// SignupRequest represents user registration parameters
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,userrole"`
}

// SigninRequest represents login parameters
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful signup/signin
type TokenResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// SelectDoctorRequest assigns a doctor to the calling patient
type SelectDoctorRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
}

// UserView is the directory representation of a user. AssignedDoctor is set
// for patients, Patients for doctors.
type UserView struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	AssignedDoctor *string   `json:"assigned_doctor,omitempty"`
	Patients       []string  `json:"patients,omitempty"`
}

// PatientSummary is the doctor-facing view of an assigned patient: identity,
// latest note text (decrypted) and the patient's current steps.
type PatientSummary struct {
	UserID     uuid.UUID         `json:"user_id"`
	Email      string            `json:"email"`
	FullName   string            `json:"full_name"`
	LatestNote *string           `json:"latest_note,omitempty"`
	Steps      []*ActionableStep `json:"actionable_steps"`
}
