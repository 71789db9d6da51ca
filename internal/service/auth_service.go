package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtIssuer         = "strength-planner"
	minPasswordLength = 8
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// ParseToken validates a bearer token and returns the user id it was issued for.
	ParseToken(token string) (primitive.ObjectID, error)
	// DeleteAccount removes the user and everything they own.
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
}

// UserDataPurger removes every record owned by a user, the user row included.
type UserDataPurger interface {
	PurgeUser(ctx context.Context, userID primitive.ObjectID) error
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	purger        UserDataPurger
	jwtSecret     string
	jwtExpiration time.Duration
	log           *logger.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, purger UserDataPurger, jwtSecret string, jwtExpiration time.Duration, log *logger.Logger) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1 // Default to 1 hour if not set properly
	}
	return &authService{
		userRepo:      userRepo,
		purger:        purger,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log.With("service", "AuthService"),
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	// 1. Validate Input
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password", "must be at least %d characters", minPasswordLength)
	}

	// 2. Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storageErr("lookup user", err)
	}

	// 3. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	// 4. Save the user. The unique email index catches a concurrent registration.
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, storageErr("create user", err)
	}
	user.ID = userID
	s.log.Info("User registered", "user_id", userID.Hex())

	// Remove password hash before returning
	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	// 1. Basic Input Validation
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	// 2. Fetch user by email
	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed // User not found maps to auth failure
		}
		return "", nil, storageErr("lookup user", err)
	}

	// 3. Compare the provided password with the stored hash
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	// 4. Authentication successful - Generate JWT
	token, err = s.generateJWT(user)
	if err != nil {
		s.log.Error("Failed to sign token", "user_id", user.ID.Hex(), "error", err)
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// DeleteAccount removes the user and cascades to everything they own.
func (s *authService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return lookupErr("user", err)
	}
	if err := s.purger.PurgeUser(ctx, userID); err != nil {
		return storageErr("delete account", err)
	}
	s.log.Info("Account deleted", "user_id", userID.Hex())
	return nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken verifies signature, algorithm and expiry, then extracts the user id.
func (s *authService) ParseToken(tokenString string) (primitive.ObjectID, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return userID, nil
}
