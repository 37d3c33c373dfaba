package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubo/internal/domain/checkout"
)

func validCardForm() checkout.Form {
	return checkout.Form{
		CountryCode: "+62",
		Mobile:      "+62 812-3456-7890",
		Email:       "guest@example.com",
		FirstName:   "Putu",
		LastName:    "Wijaya",
		Age:         "25-34",
		CardNumber:  "4242 4242 4242 4242",
		Expiry:      "12/27",
		CVC:         "123",
		CardCountry: "Indonesia",
	}
}

func TestValidateAcceptsFilledCardForm(t *testing.T) {
	res := checkout.Validate(validCardForm(), checkout.PaymentCard)
	assert.True(t, res.Valid)
	assert.Empty(t, res.FieldErrors)
}

func TestValidateEmptyFormReportsEveryFailure(t *testing.T) {
	res := checkout.Validate(checkout.Form{}, checkout.PaymentCard)
	require.False(t, res.Valid)

	want := map[string]string{
		"mobile":     "Mobile number is required",
		"email":      "Email is required",
		"firstName":  "First name is required",
		"lastName":   "Last name is required",
		"age":        "Age is required",
		"cardNumber": "Card number is required",
		"expiry":     "Expiration is required",
		"cvc":        "CVC is required",
	}
	assert.Equal(t, want, res.FieldErrors)
}

func TestValidateAlternativePaymentSkipsCardFields(t *testing.T) {
	f := validCardForm()
	f.CardNumber = ""
	f.Expiry = ""
	f.CVC = ""

	res := checkout.Validate(f, checkout.PaymentAlternative)
	assert.True(t, res.Valid)
}

func TestValidateMobileFormat(t *testing.T) {
	f := validCardForm()
	f.Mobile = "call me maybe"
	res := checkout.Validate(f, checkout.PaymentCard)
	assert.Equal(t, "Invalid mobile format", res.FieldErrors["mobile"])

	f.Mobile = "(0812) 345-678"
	res = checkout.Validate(f, checkout.PaymentCard)
	assert.NotContains(t, res.FieldErrors, "mobile")
}

func TestValidateEmailFormat(t *testing.T) {
	bad := []string{"plainaddress", "a@b", "a b@c.com", "@missing.local"}
	for _, v := range bad {
		f := validCardForm()
		f.Email = v
		res := checkout.Validate(f, checkout.PaymentCard)
		assert.Equal(t, "Invalid email address", res.FieldErrors["email"], v)
	}
}

func TestValidateAgePlaceholderRejected(t *testing.T) {
	f := validCardForm()
	f.Age = checkout.AgePlaceholder
	res := checkout.Validate(f, checkout.PaymentCard)
	assert.Equal(t, "Age is required", res.FieldErrors["age"])
}

func TestValidateCardLength(t *testing.T) {
	cases := map[string]bool{
		"4242 4242 4242":          false, // 12 digits
		"4242 4242 4242 4":        true,  // 13
		"4242 4242 4242 4242 424": true,  // 19
		"4242424242424242424242":  false, // 22
	}
	for number, ok := range cases {
		f := validCardForm()
		f.CardNumber = number
		res := checkout.Validate(f, checkout.PaymentCard)
		if ok {
			assert.NotContains(t, res.FieldErrors, "cardNumber", number)
		} else {
			assert.Equal(t, "Invalid card length", res.FieldErrors["cardNumber"], number)
		}
	}
}

func TestValidateWhitespaceOnlyIsMissing(t *testing.T) {
	f := validCardForm()
	f.FirstName = "   "
	f.Expiry = "\t"
	res := checkout.Validate(f, checkout.PaymentCard)
	assert.Equal(t, "First name is required", res.FieldErrors["firstName"])
	assert.Equal(t, "Expiration is required", res.FieldErrors["expiry"])
}

func TestFormSetByWireName(t *testing.T) {
	var f checkout.Form
	for _, name := range checkout.FieldNames() {
		assert.True(t, f.Set(name, "x"), name)
	}
	assert.False(t, f.Set("middleName", "x"))
	assert.Equal(t, "x", f.Email)
	assert.Equal(t, "x", f.CVC)
}
