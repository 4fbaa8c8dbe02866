package utils

import (
	"golang.org/x/crypto/bcrypt"
)

func EncryptKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func MatchKey(key, encryptedKey string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encryptedKey), []byte(key))
	return err == nil
}
