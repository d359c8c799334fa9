package secret

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash 生成验证码等短口令的哈希，存储端不保留明文
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 校验明文与哈希是否匹配
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
