package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/models"
)

const (
	accessTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL  = time.Hour
	bcryptCost     = 12
)

// AuthService handles registration, login, tokens and account management.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// Register creates the user and returns it with a fresh access token.
// Duplicate email or username is a Conflict.
func (s *AuthService) Register(ctx context.Context, user *models.User, password string) (string, error) {
	var existing models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", user.Email, user.Username).
		First(&existing).Error
	if err == nil {
		return "", apperror.New(apperror.Conflict, "email o nombre de usuario ya registrado")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperror.FromDB(err, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "error interno del servidor", err)
	}
	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return "", apperror.FromDB(err, "")
	}
	return s.generateToken(user.ID, user.Role)
}

// Login verifies credentials. Both unknown email and wrong password report the
// same Auth error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", apperror.New(apperror.Auth, "credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.New(apperror.Auth, "credenciales inválidas")
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Refresh reissues an access token carrying the same identity.
func (s *AuthService) Refresh(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", apperror.Wrap(apperror.Auth, "token inválido o expirado", err)
	}
	return s.generateToken(claims.UserID, claims.Role)
}

// RequestPasswordReset issues a one-hour reset token. It does not reveal
// whether the email is registered.
func (s *AuthService) RequestPasswordReset(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"type":  "reset",
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(resetTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "error interno del servidor", err)
	}
	return signed, nil
}

// ResetPassword completes a reset started by RequestPasswordReset.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	parsed, err := s.parse(resetToken)
	if err != nil {
		return apperror.Wrap(apperror.Auth, "token de restablecimiento inválido o expirado", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return apperror.New(apperror.Auth, "token de restablecimiento inválido o expirado")
	}
	tokenType, _ := claims["type"].(string)
	email, _ := claims["email"].(string)
	if tokenType != "reset" || email == "" {
		return apperror.New(apperror.Validation, "token de restablecimiento no válido")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return apperror.FromDB(err, "usuario no encontrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "error interno del servidor", err)
	}
	return apperror.FromDB(
		s.db.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error, "")
}

// Profile returns the user's account record.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, apperror.FromDB(err, "usuario no encontrado")
	}
	return &user, nil
}

// UpdateProfile applies the given fields. Role and password are not updatable
// through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}) (*models.User, error) {
	delete(fields, "role")
	delete(fields, "password_hash")
	if len(fields) == 0 {
		return nil, apperror.New(apperror.Validation, "debes especificar al menos un campo a actualizar")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, apperror.FromDB(err, "usuario no encontrado")
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(fields).Error; err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return &user, nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return apperror.FromDB(err, "usuario no encontrado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperror.New(apperror.Auth, "contraseña actual incorrecta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "error interno del servidor", err)
	}
	return apperror.FromDB(
		s.db.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error, "")
}

// DeleteAccount removes the user and everything the user owns: diets with
// their day/meal content, then recipes with their ingredient links. A recipe
// still assigned to someone else's diet blocks the whole deletion.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dietIDs := []uint{}
		err := tx.Model(&models.Diet{}).Where("user_id = ?", userID).
			Pluck("id_dieta", &dietIDs).Error
		if err != nil {
			return err
		}
		if len(dietIDs) > 0 {
			if err := tx.Where("id_dieta IN ?", dietIDs).Delete(&models.DietFood{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id_dieta IN ?", dietIDs).Delete(&models.DietRecipe{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id_dieta IN ?", dietIDs).Delete(&models.Diet{}).Error; err != nil {
				return err
			}
		}

		recipeIDs := []uint{}
		err = tx.Model(&models.Recipe{}).Where("user_id = ?", userID).
			Pluck("id_receta", &recipeIDs).Error
		if err != nil {
			return err
		}
		if len(recipeIDs) > 0 {
			var inUse int64
			err := tx.Model(&models.DietRecipe{}).Where("id_receta IN ?", recipeIDs).
				Count(&inUse).Error
			if err != nil {
				return err
			}
			if inUse > 0 {
				return apperror.New(apperror.Conflict, "las recetas del usuario están en uso por otras dietas")
			}
			if err := tx.Where("id_receta IN ?", recipeIDs).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id_receta IN ?", recipeIDs).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.New(apperror.NotFound, "usuario no encontrado")
		}
		return nil
	})
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.FromDB(err, "")
}

// UserFilter narrows ListUsers. Email matches as a case-insensitive substring.
type UserFilter struct {
	Email string
	Role  string
}

// ListUsers returns a page of users with the total count. Admin only at the
// route level.
func (s *AuthService) ListUsers(ctx context.Context, filter UserFilter, page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&models.User{})
	if filter.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}

	var users []models.User
	err := query.Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return users, total, nil
}

// ValidateToken implements middleware.TokenValidator.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}
	role, _ := claims["role"].(string)

	return &middleware.TokenClaims{UserID: uint(userID), Role: role}, nil
}

func (s *AuthService) parse(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
}

func (s *AuthService) generateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"role": role,
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "error interno del servidor", err)
	}
	return signed, nil
}
