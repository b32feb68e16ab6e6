package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The signing key comes from the JWT_SECRET environment variable,
// loaded in main via the config package.
func jwtSecretKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken creates a new JWT for a given account ID.
func GenerateToken(userID string) (string, error) {
	// "sub" (Subject) is the standard claim for the account ID.
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour * 72).Unix(), // Expires in 3 days
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtSecretKey())
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the account ID (subject) if the token is valid.
func ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token was signed with the same algorithm we use.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecretKey(), nil
	})
	if err != nil {
		return "", err // Token parsing failed (e.g., expired, malformed)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			return "", errors.New("invalid subject claim")
		}
		return userID, nil
	}

	return "", errors.New("invalid token")
}
