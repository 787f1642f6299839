package utils

import "golang.org/x/crypto/bcrypt"

// BcryptHasher 实现 service.PasswordHasher；Cost 为 0 时使用 bcrypt.DefaultCost
type BcryptHasher struct{ Cost int }

func (h BcryptHasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Check(pw, hashed string) bool { return CheckPassword(pw, hashed) }

func HashPassword(pw string) (string, error) { return BcryptHasher{}.Hash(pw) }

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
