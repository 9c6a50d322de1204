package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceIdentity describes a clock kiosk or an admin session the API will
// accept punches from.
type DeviceIdentity struct {
	DeviceID     string
	WorkCenterID string
	Role         string
}

type IdentityClaims struct {
	DeviceID     string `json:"deviceId"`
	WorkCenterID string `json:"workCenterId,omitempty"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// CreateIdentityToken mints an HS256 bearer token for a device.
func CreateIdentityToken(identity *DeviceIdentity, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		DeviceID:     identity.DeviceID,
		WorkCenterID: identity.WorkCenterID,
		Role:         identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "miticaje",
			Audience:  []string{"api.miticaje.app"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretBytes)
}
