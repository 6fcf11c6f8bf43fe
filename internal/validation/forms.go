package validation

// Registration is the sign-up form. JSON names match the wire protocol.
type Registration struct {
	FullName        string   `json:"fullName" validate:"required,min=2"`
	Email           string   `json:"email" validate:"required,simpleemail"`
	Username        string   `json:"username" validate:"required,min=3,max=20,username"`
	Password        string   `json:"password" validate:"required,password"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required,eqfield=Password"`
	Gender          string   `json:"gender" validate:"required,gender"`
	Hobbies         []string `json:"hobbies" validate:"min=1,dive,interest"`
	Country         string   `json:"country" validate:"required,country"`
	TermsAccepted   bool     `json:"termsAccepted" validate:"required"`
}

// Login is the sign-in form; Username may also hold an email address.
type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Verification carries an email verification token.
type Verification struct {
	Token string `json:"token" validate:"required"`
}

// UserLookup names an account for a profile fetch.
type UserLookup struct {
	Username string `json:"username" validate:"required"`
}

// messages maps a field to the text shown for a failing tag. The "" entry
// is the fallback for tags without a dedicated message.
type messages map[string]map[string]string

var registrationMessages = messages{
	"fullName": {"": "Full name must be at least 2 characters"},
	"email": {
		"required": "Email is required",
		"":         "Please enter a valid email address",
	},
	"username": {
		"required": "Username is required",
		"min":      "Username must be between 3 and 20 characters",
		"max":      "Username must be between 3 and 20 characters",
		"":         "Username can only contain letters, numbers, and underscores",
	},
	"password": {
		"required": "Password is required",
		"":         "Password must be at least 6 characters and contain at least one letter and one number",
	},
	"confirmPassword": {
		"required": "Please confirm your password",
		"":         "Passwords do not match",
	},
	"gender":        {"": "Please select your gender"},
	"hobbies":       {"": "Please select at least one area of interest"},
	"country":       {"": "Please select your country"},
	"termsAccepted": {"": "You must agree to the Terms of Service"},
}

var loginMessages = messages{
	"username": {"": "Username or email is required"},
	"password": {"": "Password is required"},
}

var lookupMessages = messages{
	"username": {"": "Username is required"},
}

var verificationMessages = messages{
	"token": {"": "Verification token is required"},
}

func (m messages) lookup(field, tag string) string {
	byTag, ok := m[field]
	if !ok {
		return "Invalid value for " + field
	}
	if msg, ok := byTag[tag]; ok {
		return msg
	}
	return byTag[""]
}
