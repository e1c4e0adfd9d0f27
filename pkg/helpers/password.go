package helpers

import "golang.org/x/crypto/bcrypt"

// passwordCost is shared by the user service and the seed command;
// hashes written at a higher cost still verify, so it can be raised
// without rehashing existing accounts.
const passwordCost = bcrypt.DefaultCost

// HashPassword produces the bcrypt hash stored in users.password_hash.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
