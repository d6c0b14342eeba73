package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"
)

const minPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// RegisterInput is the data needed to create a user
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Fullname string
}

// ProfileInput carries profile fields to update; nil means unchanged
type ProfileInput struct {
	Fullname *string
	Email    *string
	Avatar   *string
}

// AuthService registers users, checks credentials and issues tokens
type AuthService struct {
	db         *gorm.DB
	categories *CategoryService
	secret     string
	ttl        time.Duration
}

// NewAuthService creates an auth service signing tokens with secret
func NewAuthService(db *gorm.DB, categories *CategoryService, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: db, categories: categories, secret: secret, ttl: ttl}
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a user with default categories and returns a token for it
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, *domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !usernamePattern.MatchString(username) {
		return "", nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", nil, ErrInvalidEmail
	}
	if err := ValidatePassword(in.Password); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Fullname: strings.TrimSpace(in.Fullname),
		Role:     "user",
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, username, email, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return s.categories.seedDefaults(tx, user.ID)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", nil, s.duplicateUser(ctx, username, email) // Lost a race on the unique index
	}
	if err != nil {
		return "", nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	token, err := utils.GenerateJWT(user.ID, s.secret, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, &user, nil
}

// Login checks credentials by username or email and returns a token
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	} else if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(user.ID, s.secret, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, &user, nil
}

// GetUser loads a user by id
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateProfile changes fullname, email or avatar
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Fullname != nil {
		user.Fullname = strings.TrimSpace(*in.Fullname)
	}
	if in.Avatar != nil {
		user.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			if err := ensureUnique(s.db.WithContext(ctx), "", email, user.ID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	err = s.db.WithContext(ctx).Model(user).
		Updates(map[string]any{"fullname": user.Fullname, "email": user.Email, "avatar": user.Avatar}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(user).Update("password", string(hash)).Error
}

// ensureUnique rejects usernames or emails held by another user
func ensureUnique(tx *gorm.DB, username, email string, exceptID uint) error {
	if username != "" {
		var n int64
		if err := tx.Model(&domain.User{}).Where("username = ? AND id <> ?", username, exceptID).Count(&n).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if n > 0 {
			return ErrUsernameTaken
		}
	}
	if email != "" {
		var n int64
		if err := tx.Model(&domain.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return ErrEmailTaken
		}
	}
	return nil
}

// duplicateUser names the field another signup took first. The winner has committed by the
// time the unique index rejects us, so a fresh check sees it.
func (s *AuthService) duplicateUser(ctx context.Context, username, email string) error {
	if err := ensureUnique(s.db.WithContext(ctx), username, email, 0); err != nil {
		return err
	}
	return ErrUsernameTaken
}

// notFound maps gorm's missing-record error to ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
