package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsRequest_Validate(t *testing.T) {
	assert.NoError(t, CredentialsRequest{Email: "a@x.com", Password: "secret1"}.Validate())
	// no format or strength rules
	assert.NoError(t, CredentialsRequest{Email: "not-an-email", Password: "1"}.Validate())

	err := CredentialsRequest{}.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "email: cannot be blank")
		assert.Contains(t, err.Error(), "password: cannot be blank")
	}
}
