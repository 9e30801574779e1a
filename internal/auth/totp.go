package auth

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "StockFlow"

// GenerateTOTPSecret creates a new TOTP key for a user. The returned
// otpauth URL can be rendered as a QR code by the client.
func GenerateTOTPSecret(accountName string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTPCode checks a 6-digit code against the stored secret.
func ValidateTOTPCode(code, secret string) bool {
	return totp.Validate(code, secret)
}
