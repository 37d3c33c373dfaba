package checkout

import (
	"regexp"
	"strings"
)

// PaymentMethod selects which field group the validator enforces.
type PaymentMethod string

const (
	PaymentCard        PaymentMethod = "card"
	PaymentAlternative PaymentMethod = "alternative"
)

// AgePlaceholder is the sentinel the age selector shows before a bracket is
// chosen; it never validates.
const AgePlaceholder = "Select your age"

// Form is the mutable contact/payment record a guest fills during checkout.
// Created empty when the checkout view opens, validated on submit, discarded
// on navigation away.
type Form struct {
	CountryCode string `json:"country_code"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         string `json:"age"`
	CardNumber  string `json:"card_number"`
	Expiry      string `json:"expiry"`
	CVC         string `json:"cvc"`
	CardCountry string `json:"card_country"`
}

// Result carries the validation verdict and per-field messages.
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]*$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Validate runs every field rule and reports all failures at once. Card
// fields are checked only for the card payment method, and only for presence
// and digit length: no Luhn, no expiry parsing.
func Validate(f Form, method PaymentMethod) Result {
	errs := map[string]string{}

	if strings.TrimSpace(f.Mobile) == "" {
		errs["mobile"] = "Mobile number is required"
	} else if !phonePattern.MatchString(f.Mobile) {
		errs["mobile"] = "Invalid mobile format"
	}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(f.Email) {
		errs["email"] = "Invalid email address"
	}

	if strings.TrimSpace(f.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	if f.Age == "" || f.Age == AgePlaceholder {
		errs["age"] = "Age is required"
	}

	if method == PaymentCard {
		digits := nonDigits.ReplaceAllString(f.CardNumber, "")
		if digits == "" {
			errs["cardNumber"] = "Card number is required"
		} else if len(digits) < 13 || len(digits) > 19 {
			errs["cardNumber"] = "Invalid card length"
		}
		if strings.TrimSpace(f.Expiry) == "" {
			errs["expiry"] = "Expiration is required"
		}
		if strings.TrimSpace(f.CVC) == "" {
			errs["cvc"] = "CVC is required"
		}
	}

	return Result{Valid: len(errs) == 0, FieldErrors: errs}
}

// FieldNames lists the editable form fields in display order.
func FieldNames() []string {
	return []string{
		"countryCode", "mobile", "email", "firstName", "lastName", "age",
		"cardNumber", "expiry", "cvc", "cardCountry",
	}
}

// Set assigns a field by its wire name and reports whether the name is known.
func (f *Form) Set(field, value string) bool {
	switch field {
	case "countryCode":
		f.CountryCode = value
	case "mobile":
		f.Mobile = value
	case "email":
		f.Email = value
	case "firstName":
		f.FirstName = value
	case "lastName":
		f.LastName = value
	case "age":
		f.Age = value
	case "cardNumber":
		f.CardNumber = value
	case "expiry":
		f.Expiry = value
	case "cvc":
		f.CVC = value
	case "cardCountry":
		f.CardCountry = value
	default:
		return false
	}
	return true
}
