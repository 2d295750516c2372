package chat

import (
	errors "github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/common/validation"
)

type SendMessageDTO struct {
	Message string `json:"message"`
}

// Validate requires a body unless an attachment rides along; a bare
// file is a valid message.
func (d SendMessageDTO) Validate(hasAttachment bool) *errors.AppError {
	v := validation.NewValidator()
	if !hasAttachment {
		v.Field("message", d.Message).Required()
	}
	v.Field("message", d.Message).MaxLength(2000)
	return v.Validate()
}
