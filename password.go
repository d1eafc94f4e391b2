package plinth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for uploader credential hashes.
const bcryptCost = 12

// HashPassword hashes an uploader's password with bcrypt. Services that
// exchange credentials for an upload token (see GenerateUploadToken) store
// this hash, never the plaintext.
//
// Example:
//
//	hash, err := plinth.HashPassword(newUploader.Password)
//	if err != nil {
//	    return err
//	}
//	// Persist hash alongside the uploader record
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt
// hash. A nil error means they match; the usual flow then issues an
// upload token:
//
//	if err := plinth.CheckPassword(req.Password, storedHash); err != nil {
//	    return plinth.JSON(401, map[string]string{"error": "invalid credentials"})
//	}
//	token, err := plinth.GenerateUploadToken(uploaderID, secret, time.Hour)
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
