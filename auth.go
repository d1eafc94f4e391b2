package plinth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const uploaderKey contextKey = "uploader"

// RequireAuth creates middleware that gates a route behind a bearer token
// issued by GenerateUploadToken. Upload endpoints accept arbitrary bytes
// from the client, so services typically attach this to every route that
// calls GetUploadedFile or GetUploadedFiles.
//
// On success the uploader ID travels in the request context and handlers
// read it back with UploaderFromContext. A missing, malformed, or invalid
// token short-circuits the chain with a 401 before any multipart parsing
// happens.
//
// Usage:
//
//	routes := []plinth.Route{
//	    {
//	        Method:     "POST",
//	        Path:       "/uploadFile",
//	        Handler:    uploadHandler,
//	        Middleware: []plinth.Middleware{plinth.RequireAuth(secret)},
//	    },
//	}
func RequireAuth(secret string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, r *http.Request) Response {
			header := r.Header.Get("Authorization")
			if header == "" {
				return JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing authorization header",
				})
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid authorization format",
				})
			}

			uploader, err := ValidateUploadToken(token, secret)
			if err != nil {
				return JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid token",
				})
			}

			return next(WithUploader(ctx, uploader), r)
		}
	}
}

// GenerateUploadToken signs a token identifying who is allowed to upload.
// The uploader ID is stored as the "sub" claim alongside issued-at and
// expiration claims; ttl bounds how long the client may keep uploading
// with it.
//
// Example:
//
//	token, err := plinth.GenerateUploadToken("user123", secret, 24*time.Hour)
func GenerateUploadToken(uploaderID string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   uploaderID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateUploadToken checks a token's signature and expiration and returns
// the uploader ID it was issued for. Only HMAC-signed tokens are accepted.
func ValidateUploadToken(tokenString string, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	uploader, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("missing uploader ID in token")
	}

	return uploader, nil
}

// WithUploader adds an uploader ID to the request context.
// RequireAuth calls this after validating a token.
func WithUploader(ctx context.Context, uploaderID string) context.Context {
	return context.WithValue(ctx, uploaderKey, uploaderID)
}

// UploaderFromContext returns the uploader ID set by RequireAuth, for
// handlers that want to record who submitted a file.
//
// Example:
//
//	func uploadHandler(ctx context.Context, r *http.Request) plinth.Response {
//	    uploader, ok := plinth.UploaderFromContext(ctx)
//	    if !ok {
//	        return plinth.JSON(500, map[string]string{"error": "uploader not found"})
//	    }
//	    // Tag the stored file with uploader...
//	}
func UploaderFromContext(ctx context.Context) (string, bool) {
	uploader, ok := ctx.Value(uploaderKey).(string)
	return uploader, ok
}
