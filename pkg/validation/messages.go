package validation

// Default messages, overridden per field by Validation.Message.
const (
	msgRequired     = "This field is required"
	msgMinLength    = "Minimum length is %d characters"
	msgMaxLength    = "Maximum length is %d characters"
	msgInvalidEmail = "Please enter a valid email address"
	msgInvalidTel   = "Please enter a valid phone number"
)
