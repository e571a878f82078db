package services

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
)

// OTPService provisions and verifies the TOTP second factor. It is the
// external-collaborator surface of the auth flow; token issuance itself
// stays in utils/jwt.go.
type OTPService struct {
	DB     *gorm.DB
	Issuer string
}

func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{DB: db, Issuer: "Restaurant POS"}
}

// TwoFASetup is returned by Setup for the client to display.
type TwoFASetup struct {
	Secret      string   `json:"secret"`
	QRCode      string   `json:"qr_code"` // data URL, PNG
	BackupCodes []string `json:"backup_codes"`
}

// Setup generates a TOTP secret, QR provisioning image and backup codes
// for a user. 2FA only turns on after the first successful Verify.
func (s *OTPService) Setup(userID uint) (*TwoFASetup, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, poserr.NotFound("user", userID)
		}
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	codes := generateBackupCodes(10)
	codesJSON, err := json.Marshal(codes)
	if err != nil {
		return nil, err
	}

	secret := key.Secret()
	user.TOTPSecret = &secret
	user.BackupCodes = string(codesJSON)
	user.UpdatedAt = time.Now()
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	return &TwoFASetup{
		Secret:      secret,
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		BackupCodes: codes,
	}, nil
}

// Verify checks a TOTP code (or a one-shot backup code) and enables 2FA
// on first success.
func (s *OTPService) Verify(userID uint, code string) (bool, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, poserr.NotFound("user", userID)
		}
		return false, err
	}
	if user.TOTPSecret == nil {
		return false, poserr.Validationf("2FA has not been set up for user %d", userID)
	}

	ok := totp.Validate(code, *user.TOTPSecret)
	if !ok {
		ok = s.consumeBackupCode(&user, code)
	}
	if !ok {
		return false, nil
	}

	if !user.TwoFAOn {
		user.TwoFAOn = true
	}
	user.UpdatedAt = time.Now()
	if err := s.DB.Save(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}

// consumeBackupCode burns a matching backup code. Each code works once.
func (s *OTPService) consumeBackupCode(user *models.User, code string) bool {
	if user.BackupCodes == "" {
		return false
	}
	var codes []string
	if err := json.Unmarshal([]byte(user.BackupCodes), &codes); err != nil {
		return false
	}

	for i, candidate := range codes {
		if candidate == code {
			codes = append(codes[:i], codes[i+1:]...)
			if remaining, err := json.Marshal(codes); err == nil {
				user.BackupCodes = string(remaining)
			}
			return true
		}
	}
	return false
}

func generateBackupCodes(count int) []string {
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		codes = append(codes, raw[:8])
	}
	return codes
}
