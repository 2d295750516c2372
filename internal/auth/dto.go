package auth

import (
	errors "github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/common/validation"
)

// LoginDTO is the transport shape accepted by the login endpoint.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// RegisterDTO mirrors the sign-up form. Validation here is the client-side
// rule set enforced again server-side: non-empty name, parseable email,
// password of at least 8 characters matching its confirmation.
type RegisterDTO struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(8)
	v.Field("password_confirmation", d.PasswordConfirmation).
		Equals(d.Password, "password confirmation does not match", errors.ErrCodePasswordMismatch)
	return v.Validate()
}

// ChannelAuthDTO asks for a broadcast subscription token.
type ChannelAuthDTO struct {
	Channel string `json:"channel"`
}

func (d ChannelAuthDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("channel", d.Channel).Required()
	return v.Validate()
}

// CSRFResponse returns the anti-forgery token minted in step one of the
// login handshake.
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type ChannelAuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
