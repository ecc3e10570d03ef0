// Package credential 负责口令哈希与校验
package credential

import (
	"golang.org/x/crypto/bcrypt"
)

// Verifier 口令哈希与校验
type Verifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptVerifier 使用 bcrypt 的实现
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier cost 非法时使用 bcrypt.DefaultCost
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

func (b *BcryptVerifier) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *BcryptVerifier) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
