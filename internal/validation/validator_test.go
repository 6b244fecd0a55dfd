package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerPayload struct {
	Name                 string `json:"name" validate:"required,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func TestValidateStructValid(t *testing.T) {
	payload := registerPayload{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
	assert.Nil(t, ValidateStruct(&payload))
}

func TestValidateStructReportsWireFieldNames(t *testing.T) {
	payload := registerPayload{
		Name:                 "Alice",
		Email:                "not-an-email",
		Password:             "short",
		PasswordConfirmation: "different",
	}
	errs := ValidateStruct(&payload)

	assert.Equal(t, []string{"The email field must be a valid email address."}, errs["email"])
	assert.Equal(t, []string{"The password field must have at least 6 items/characters."}, errs["password"])
	assert.Equal(t, []string{"The password_confirmation field confirmation does not match."}, errs["password_confirmation"])
	assert.NotContains(t, errs, "Email", "field names should come from the json tag, not the struct")
}

func TestValidateStructFormTags(t *testing.T) {
	type destinationPayload struct {
		Name     string `form:"name" validate:"required"`
		Location string `form:"location" validate:"required"`
	}
	errs := ValidateStruct(&destinationPayload{})

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "location")
}
