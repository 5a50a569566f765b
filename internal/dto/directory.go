package dto

import (
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create an administrator.
// Students and staff are created through their own endpoints so that the
// matching profile is written with the user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"fullName" binding:"required,max=128"`
}

// CreateStudentRequest defines the data needed to enrol a student.
type CreateStudentRequest struct {
	Username      string  `json:"username" binding:"required,min=3,max=64"`
	Password      string  `json:"password" binding:"required,min=8,max=72"`
	FullName      string  `json:"fullName" binding:"required,max=128"`
	StudentNumber string  `json:"studentNumber" binding:"required,max=32"`
	ClassID       *string `json:"classID"`
}

// CreateStaffRequest defines the data needed to register a staff member.
type CreateStaffRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"fullName" binding:"required,max=128"`
	Position string `json:"position" binding:"max=64"`
}

// CreateClassRequest defines the data needed to create a class.
type CreateClassRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=255"`
}

// SetUserActiveRequest toggles whether a user may log in.
type SetUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListStudentsParams defines query parameters for listing students.
type ListStudentsParams struct {
	ClassID string `form:"classID"`
}

// UserResponse defines the user data returned by the API.
type UserResponse struct {
	UserID    string      `json:"userID"`
	Username  string      `json:"username"`
	FullName  string      `json:"fullName"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// StudentResponse defines the student data returned by the API.
type StudentResponse struct {
	StudentID     string    `json:"studentID"`
	Username      string    `json:"username"`
	FullName      string    `json:"fullName"`
	StudentNumber string    `json:"studentNumber"`
	ClassID       *string   `json:"classID,omitempty"`
	ClassName     string    `json:"className"`
	Balance       Money     `json:"balance"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListStudentsResponse wraps the list of students.
type ListStudentsResponse struct {
	Students []StudentResponse `json:"students"`
}

// StaffResponse defines the staff data returned by the API.
type StaffResponse struct {
	StaffID   string    `json:"staffID"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Position  string    `json:"position"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListStaffResponse wraps the list of staff members.
type ListStaffResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// ClassResponse defines the class data returned by the API.
type ClassResponse struct {
	ClassID     string    `json:"classID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListClassesResponse wraps the list of classes.
type ListClassesResponse struct {
	Classes []ClassResponse `json:"classes"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO.
func ToListUserResponse(users []domain.User) ListUsersResponse {
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: resp}
}

// ToStudentResponse converts a domain.StudentProfile to StudentResponse DTO.
func ToStudentResponse(s *domain.StudentProfile) StudentResponse {
	return StudentResponse{
		StudentID:     s.StudentID,
		Username:      s.Username,
		FullName:      s.FullName,
		StudentNumber: s.StudentNumber,
		ClassID:       s.ClassID,
		ClassName:     s.ClassName,
		Balance:       Money(s.Balance),
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
	}
}

// ToListStudentsResponse converts student profiles to the response DTO.
func ToListStudentsResponse(students []domain.StudentProfile) ListStudentsResponse {
	resp := make([]StudentResponse, len(students))
	for i := range students {
		resp[i] = ToStudentResponse(&students[i])
	}
	return ListStudentsResponse{Students: resp}
}

// ToStaffResponse converts a domain.StaffProfile to StaffResponse DTO.
func ToStaffResponse(s *domain.StaffProfile) StaffResponse {
	return StaffResponse{
		StaffID:   s.StaffID,
		Username:  s.Username,
		FullName:  s.FullName,
		Position:  s.Position,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

// ToListStaffResponse converts staff profiles to the response DTO.
func ToListStaffResponse(staff []domain.StaffProfile) ListStaffResponse {
	resp := make([]StaffResponse, len(staff))
	for i := range staff {
		resp[i] = ToStaffResponse(&staff[i])
	}
	return ListStaffResponse{Staff: resp}
}

// ToClassResponse converts a domain.Class to ClassResponse DTO.
func ToClassResponse(c *domain.Class) ClassResponse {
	return ClassResponse{
		ClassID:     c.ClassID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// ToListClassesResponse converts classes to the response DTO.
func ToListClassesResponse(classes []domain.Class) ListClassesResponse {
	resp := make([]ClassResponse, len(classes))
	for i := range classes {
		resp[i] = ToClassResponse(&classes[i])
	}
	return ListClassesResponse{Classes: resp}
}
