package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.Error(t, VerifyPassword(hash, "wrong password"))
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	h1, err := HashPassword("same input")
	assert.NoError(t, err)
	h2, err := HashPassword("same input")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
