package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("user@example"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("bob"))
	assert.True(t, ValidateUsername(strings.Repeat("a", 30)))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername(strings.Repeat("a", 31)))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!pass"))
	assert.False(t, ValidatePassword("short1!"))
	assert.False(t, ValidatePassword("alllowercase1!"))
	assert.False(t, ValidatePassword("NoDigits!!"))
	assert.False(t, ValidatePassword("NoSpecial123"))
}

func TestNormalizeLoginID(t *testing.T) {
	assert.Equal(t, "alice", NormalizeLoginID("  Alice "))
	assert.Equal(t, "user@example.com", NormalizeLoginID("User@Example.COM"))
	assert.Equal(t, "bob", NormalizeLoginID("bob"))
}

func TestValidateResourceName(t *testing.T) {
	assert.True(t, ValidateResourceName("Groceries"))
	assert.True(t, ValidateResourceName("  padded  "))
	assert.False(t, ValidateResourceName("   "))
	assert.False(t, ValidateResourceName(""))
	assert.False(t, ValidateResourceName(strings.Repeat("x", 101)))
}
