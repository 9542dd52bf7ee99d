// raglite/controllers/auth.go
package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"raglite/raglite/config"
	"raglite/raglite/sources/psql/dao"
	"raglite/raglite/sources/psql/models"
	"raglite/raglite/utils/apperrors"
	"raglite/raglite/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (c *AuthController) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.Validationf("username and password are required")
	}
	if len(username) < 3 {
		return nil, apperrors.Validationf("username must be at least 3 characters")
	}
	if len(password) < 6 {
		return nil, apperrors.Validationf("password must be at least 6 characters")
	}

	existing, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validationf("username is already taken")
	}
	var emailPtr *string
	if email != "" {
		byEmail, err := c.userDAO.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if byEmail != nil {
			return nil, apperrors.Validationf("email is already taken")
		}
		emailPtr = &email
	}

	user := &models.User{
		Username:     username,
		Email:        emailPtr,
		PasswordHash: hashPassword(password),
		IsActive:     true,
	}
	if err := c.userDAO.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logging.AppLogger.Info("user registered", zap.String("username", username))
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (c *AuthController) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, apperrors.Validationf("username and password are required")
	}
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperrors.Validationf("user does not exist")
	}
	if !user.IsActive {
		return "", nil, apperrors.Validationf("this user has been disabled")
	}
	if hashPassword(password) != user.PasswordHash {
		return "", nil, apperrors.Validationf("incorrect password")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.JWTSecret))
	if err != nil {
		return "", nil, err
	}
	logging.AppLogger.Info("user logged in", zap.String("username", username))
	return signed, user, nil
}
