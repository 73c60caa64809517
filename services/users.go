package services

import (
	"errors"
	"time"

	"matcharena/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

// UserService handles registration, login and the server-side session
// records backing the cookie. Usernames are canonicalized with slug so
// "Alice Smith" and "alice smith" collide instead of coexisting.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Register creates a new user and returns the canonical name.
func (s *UserService) Register(name, password string) (string, error) {
	canonical := slug.Make(name)
	if canonical == "" || password == "" {
		return "", ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", storeErr(err)
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.First(&existing, "name = ?", canonical).Error
		if err == nil {
			return ErrNameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.User{Name: canonical, PasswordHash: string(hash)}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			return "", ErrNameTaken
		}
		return "", storeErr(err)
	}
	return canonical, nil
}

// Authenticate checks name+password and returns the canonical name.
func (s *UserService) Authenticate(name, password string) (string, error) {
	canonical := slug.Make(name)
	var user models.User
	if err := s.DB.First(&user, "name = ?", canonical).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBadCredentials
		}
		return "", storeErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}
	return user.Name, nil
}

// StartSession issues an opaque session token for an authenticated user.
func (s *UserService) StartSession(user string) (string, error) {
	sess := &models.Session{
		Token:     uuid.NewString(),
		UserName:  user,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.DB.Create(sess).Error; err != nil {
		return "", storeErr(err)
	}
	return sess.Token, nil
}

// ResolveSession maps a cookie token back to a username.
func (s *UserService) ResolveSession(token string) (string, error) {
	if token == "" {
		return "", ErrBadCredentials
	}
	var sess models.Session
	err := s.DB.First(&sess, "token = ? AND expires_at > ?", token, time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBadCredentials
		}
		return "", storeErr(err)
	}
	return sess.UserName, nil
}

// EndSession invalidates a session token. Unknown tokens are fine.
func (s *UserService) EndSession(token string) error {
	if token == "" {
		return nil
	}
	return storeErr(s.DB.Delete(&models.Session{}, "token = ?", token).Error)
}
