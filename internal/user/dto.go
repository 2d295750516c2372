package user

import (
	errors "github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/core/common/validation"
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(8)
	v.Field("role", d.Role).Required().Custom(validRole)
	return v.Validate()
}

// UpdateUserDTO carries only the fields an admin may change; nil means
// "leave as is".
type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required()
	}
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email()
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required().Custom(validRole)
	}
	return v.Validate()
}

func validRole(value interface{}) *errors.AppError {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	if _, known := auth.ParseRole(s); !known {
		return errors.NewValidationFieldError("role", "role must be one of admin, responsable, collaborateur", errors.ErrCodeValidationFailed)
	}
	return nil
}
