package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestNewUserNormalize(t *testing.T) {
	n := NewUser{Name: "  Ann Lee ", Email: " ANN@Example.com ", Password: " secret1 "}.Normalize()

	assert.Equal(t, "Ann Lee", n.Name)
	assert.Equal(t, "ann@example.com", n.Email)
	assert.Equal(t, " secret1 ", n.Password)
}

func TestValidateNewOK(t *testing.T) {
	cases := []NewUser{
		{Name: "Al", Email: "a@b.co", Password: "123456"},
		{Name: strings.Repeat("x", 50), Email: "ann@example.com", Password: "secret1"},
		{Name: "Зоя", Email: "zoya@mail.ru", Password: "пароль1"},
	}
	for _, c := range cases {
		assert.NoError(t, ValidateNew(c), c.Name)
	}
}

func TestValidateNewNameLength(t *testing.T) {
	for _, name := range []string{"A", strings.Repeat("x", 51)} {
		err := ValidateNew(NewUser{Name: name, Email: "a@b.co", Password: "123456"})

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.True(t, ve.Has("name"))
		assert.Len(t, ve.Fields, 1)
	}
}

func TestValidateNewEmailShape(t *testing.T) {
	for _, email := range []string{"bad", "a@b", "@b.c", "a@.c"} {
		err := ValidateNew(NewUser{Name: "Ann", Email: email, Password: "123456"})

		var ve *ValidationError
		require.True(t, errors.As(err, &ve), email)
		assert.True(t, ve.Has("email"), email)
	}
}

func TestValidateNewEnumeratesAllFields(t *testing.T) {
	err := ValidateNew(NewUser{Name: "A", Email: "bad", Password: "123"})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 3)
	assert.True(t, ve.Has("name"))
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("password"))
}

func TestValidateNewRequired(t *testing.T) {
	err := ValidateNew(NewUser{})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	for _, f := range ve.Fields {
		assert.Equal(t, "required", f.Rule, f.Field)
	}
	assert.Len(t, ve.Fields, 3)
}

func TestValidatePatchOnlyChangedFields(t *testing.T) {
	assert.NoError(t, ValidatePatch(UserPatch{}))
	assert.NoError(t, ValidatePatch(UserPatch{Name: strp("Bob")}))

	err := ValidatePatch(UserPatch{Email: strp("nope"), Password: strp("123")})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.False(t, ve.Has("name"))
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("password"))
}

func TestUserPatchNormalize(t *testing.T) {
	p := UserPatch{Name: strp(" Bob "), Email: strp(" BOB@X.IO")}.Normalize()

	assert.Equal(t, "Bob", *p.Name)
	assert.Equal(t, "bob@x.io", *p.Email)
	assert.Nil(t, p.Password)
	assert.False(t, p.Empty())
	assert.True(t, UserPatch{}.Empty())
}

func TestValidateEmailMaxLen(t *testing.T) {
	at := "@example.com"
	ok := strings.Repeat("a", EmailMaxLen-len(at)) + at
	assert.NoError(t, ValidateNew(NewUser{Name: "Ann", Email: ok, Password: "secret1"}))

	long := "a" + ok
	err := ValidateNew(NewUser{Name: "Ann", Email: long, Password: "secret1"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "email", ve.Fields[0].Field)
	assert.Equal(t, "max", ve.Fields[0].Rule)

	assert.Error(t, ValidatePatch(UserPatch{Email: &long}))
}
