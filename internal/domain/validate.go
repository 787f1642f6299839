package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	NameMinLen     = 2
	NameMaxLen     = 50
	PasswordMinLen = 6
	EmailMaxLen    = 191 // 与 users.email 列宽一致
)

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

func NormalizeName(s string) string { return strings.TrimSpace(s) }

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Normalize 返回 trim/lowercase 之后的副本，密码不做处理
func (n NewUser) Normalize() NewUser {
	n.Name = NormalizeName(n.Name)
	n.Email = NormalizeEmail(n.Email)
	return n
}

// Normalize 同上，只处理非 nil 字段
func (p UserPatch) Normalize() UserPatch {
	if p.Name != nil {
		v := NormalizeName(*p.Name)
		p.Name = &v
	}
	if p.Email != nil {
		v := NormalizeEmail(*p.Email)
		p.Email = &v
	}
	return p
}

// ValidateNew 校验已规范化的创建参数
func ValidateNew(n NewUser) error {
	ve := &ValidationError{}
	checkName(ve, n.Name)
	checkEmail(ve, n.Email)
	checkPassword(ve, n.Password)
	return ve.orNil()
}

// ValidatePatch 只校验要修改的字段
func ValidatePatch(p UserPatch) error {
	ve := &ValidationError{}
	if p.Name != nil {
		checkName(ve, *p.Name)
	}
	if p.Email != nil {
		checkEmail(ve, *p.Email)
	}
	if p.Password != nil {
		checkPassword(ve, *p.Password)
	}
	return ve.orNil()
}

func checkName(ve *ValidationError, name string) {
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		ve.add("name", "required", "User Name is required")
	case n < NameMinLen:
		ve.add("name", "min", "User Name must be at least 2 characters")
	case n > NameMaxLen:
		ve.add("name", "max", "User Name must be at most 50 characters")
	}
}

func checkEmail(ve *ValidationError, email string) {
	switch {
	case email == "":
		ve.add("email", "required", "User Email is required")
	case utf8.RuneCountInString(email) > EmailMaxLen:
		ve.add("email", "max", "User Email must be at most 191 characters")
	case !emailRe.MatchString(email):
		ve.add("email", "email", "Please fill a valid email address")
	}
}

func checkPassword(ve *ValidationError, pw string) {
	n := utf8.RuneCountInString(pw)
	switch {
	case n == 0:
		ve.add("password", "required", "User Password is required")
	case n < PasswordMinLen:
		ve.add("password", "min", "User Password must be at least 6 characters")
	}
}
