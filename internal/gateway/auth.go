package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/chiya/internal/models"
	"github.com/example/chiya/internal/utils"
)

// StaffAuth authenticates dashboard staff against the staff table and issues
// JWT session tokens. Signed-out tokens are kept in a revocation table.
type StaffAuth struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
	log    logrus.FieldLogger

	observers *authObservers
}

// NewStaffAuth constructs StaffAuth.
func NewStaffAuth(db *gorm.DB, secret string, ttl time.Duration, log logrus.FieldLogger) *StaffAuth {
	return &StaffAuth{
		db:        db,
		secret:    secret,
		ttl:       ttl,
		log:       log.WithField("component", "staff_auth"),
		observers: newAuthObservers(),
	}
}

// SignIn checks credentials. Every failure is reported as ErrInvalidCredentials.
func (a *StaffAuth) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	var staff models.Staff
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&staff).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			a.log.WithError(err).Error("staff lookup failed")
		}
		return Session{}, ErrInvalidCredentials
	}

	if !staff.IsActive || !passwordMatches(staff.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	token, claims, err := utils.GenerateToken(a.secret, staff.ID, a.ttl)
	if err != nil {
		a.log.WithError(err).Error("failed to sign token")
		return Session{}, ErrInvalidCredentials
	}

	return Session{
		Identity:  identityOf(staff),
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// SignOut revokes token and tells its observers the session ended.
func (a *StaffAuth) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return ErrUnauthenticated
	}

	revoked := models.RevokedToken{TokenID: claims.TokenID, ExpiresAt: claims.ExpiresAt}
	if err := a.db.WithContext(ctx).Where(models.RevokedToken{TokenID: claims.TokenID}).
		FirstOrCreate(&revoked).Error; err != nil {
		return err
	}

	a.observers.signal(claims.TokenID)
	return nil
}

// Identify resolves a token to the staff member behind it.
func (a *StaffAuth) Identify(ctx context.Context, token string) (Identity, error) {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	var revoked int64
	if err := a.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("token_id = ?", claims.TokenID).Count(&revoked).Error; err != nil {
		return Identity{}, err
	}
	if revoked > 0 {
		return Identity{}, ErrUnauthenticated
	}

	var staff models.Staff
	if err := a.db.WithContext(ctx).First(&staff, "id = ?", claims.StaffID).Error; err != nil {
		return Identity{}, ErrUnauthenticated
	}
	if !staff.IsActive {
		return Identity{}, ErrUnauthenticated
	}

	return identityOf(staff), nil
}

// ObserveAuthState reports the identity behind token, then nil after sign-out.
func (a *StaffAuth) ObserveAuthState(token string, onChange func(*Identity)) func() {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		onChange(nil)
		return func() {}
	}
	return a.observers.observe(claims.TokenID, func() (Identity, error) {
		return a.Identify(context.Background(), token)
	}, onChange)
}

// PurgeRevoked deletes revocation rows whose tokens have expired anyway.
func (a *StaffAuth) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	res := a.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}

// EnsureStaff creates the staff account for email unless it already exists.
func (a *StaffAuth) EnsureStaff(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var existing models.Staff
	err := a.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := hashStaffPassword(password)
	if err != nil {
		return err
	}

	staff := models.Staff{Email: email, DisplayName: name, PasswordHash: hash, IsActive: true}
	if err := a.db.WithContext(ctx).Create(&staff).Error; err != nil {
		return err
	}
	a.log.WithField("email", email).Info("created staff account")
	return nil
}

func identityOf(staff models.Staff) Identity {
	return Identity{StaffID: staff.ID, Email: staff.Email, DisplayName: staff.DisplayName}
}
