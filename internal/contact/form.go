package contact

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Form is a visitor's contact request.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
}

// Validate enforces the form rules. Lengths count characters, not bytes.
func (f Form) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required,
			validation.Length(2, 0).Error("Name must be at least 2 characters.")),
		validation.Field(&f.Email,
			validation.Required,
			is.EmailFormat.Error("Please enter a valid email.")),
		validation.Field(&f.Message,
			validation.Required,
			validation.Length(10, 500).Error("Message must be between 10 and 500 characters.")),
	)
}
