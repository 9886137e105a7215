package utils

import (
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ParseID parses a positive integer identifier from a path or query value
func ParseID(value string) (int64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty id")
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", value, err)
	}
	if id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be positive", value)
	}

	return id, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
