package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"booktank/internal/apperrors"
	"booktank/internal/config"
	"booktank/internal/models"
	"booktank/internal/permissions"
	"booktank/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Reasons a token is rejected. Callers report all of them as "not
// authenticated" and may log which one it was.
var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

var errBadCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the username is unknown so that both
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("booktank-dummy-password"), bcrypt.DefaultCost)

// Claims is the signed claim set carried by access tokens.
type Claims struct {
	ID   int64       `json:"id"`
	Role models.Role `json:"role"`
	jwt.StandardClaims
}

// UserInput carries the fields needed to create an account.
type UserInput struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Email       *string
	PhoneNumber *string
}

// AuthService handles registration, credential checks and tokens.
type AuthService struct {
	uow    repositories.UnitOfWork
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates a new AuthService. The signing algorithm, secret and
// token lifetime come from cfg.
func NewAuthService(uow repositories.UnitOfWork, cfg config.Config) *AuthService {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &AuthService{
		uow:    uow,
		secret: []byte(cfg.JWTSecret),
		method: method,
		ttl:    cfg.JWTTTL,
		now:    time.Now,
	}
}

// Register creates a customer account without a profile row.
func (s *AuthService) Register(ctx context.Context, in UserInput) (models.User, error) {
	var user models.User
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		user, err = createUser(tx, in, models.RoleCustomer, s.now())
		return err
	})
	return user, err
}

// CreateAdmin creates an account with the admin role.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		user, err = createUser(tx, UserInput{Username: username, Password: password}, models.RoleAdmin, s.now())
		return err
	})
	return user, err
}

// Authenticate verifies a username and password pair.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (permissions.Principal, error) {
	var (
		user  models.User
		found bool
	)
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		user, found, err = tx.Users().GetByUsername(username)
		return err
	})
	if err != nil {
		return permissions.Principal{}, err
	}

	hash := dummyHash
	if found {
		hash = user.Password
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !found {
		return permissions.Principal{}, apperrors.Authentication(errBadCredentials)
	}
	return permissions.Principal{ID: user.ID, Role: user.Role}, nil
}

// Login authenticates and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	principal, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.IssueToken(principal)
}

// IssueToken signs a token for p that expires after the configured TTL.
func (s *AuthService) IssueToken(p permissions.Principal) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		ID:   p.ID,
		Role: p.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Infrastructure("failed to generate token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies tokenString. The role is trusted from the
// claims without a store lookup, so a role change applies on the next login.
func (s *AuthService) ValidateToken(tokenString string) (permissions.Principal, error) {
	if tokenString == "" {
		return permissions.Principal{}, apperrors.Authentication(ErrTokenMissing)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors == jwt.ValidationErrorExpired {
			return permissions.Principal{}, apperrors.Authentication(ErrTokenExpired)
		}
		log.Printf("Token validation error: %v", err)
		return permissions.Principal{}, apperrors.Authentication(fmt.Errorf("%w: %v", ErrTokenInvalid, err))
	}
	if claims.ID == 0 || !claims.Role.Valid() {
		return permissions.Principal{}, apperrors.Authentication(fmt.Errorf("%w: incomplete claims", ErrTokenInvalid))
	}
	return permissions.Principal{ID: claims.ID, Role: claims.Role}, nil
}

// createUser checks uniqueness, hashes the password and inserts the user with
// role. The pre-checks only produce friendlier messages; the unique indexes
// decide.
func createUser(tx repositories.Tx, in UserInput, role models.Role, now time.Time) (models.User, error) {
	if in.Username == "" {
		return models.User{}, apperrors.Validation("username is required")
	}
	if in.Password == "" {
		return models.User{}, apperrors.Validation("password is required")
	}
	if err := ensureUserFieldsFree(tx, 0, &in.Username, in.Email, in.PhoneNumber); err != nil {
		return models.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperrors.Infrastructure("failed to hash password", err)
	}

	user := models.User{
		Username:    in.Username,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    hashed,
		Role:        role,
	}
	models.Touch(&user.CreatedAt, &user.UpdatedAt, now)
	if err := tx.Users().Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ensureUserFieldsFree rejects a username, email or phone number already held
// by a user other than selfID. Nil fields are skipped.
func ensureUserFieldsFree(tx repositories.Tx, selfID int64, username, email, phone *string) error {
	type lookup struct {
		field string
		value *string
		get   func(string) (models.User, bool, error)
	}
	users := tx.Users()
	for _, l := range []lookup{
		{"username", username, users.GetByUsername},
		{"email", email, users.GetByEmail},
		{"phone number", phone, users.GetByPhoneNumber},
	} {
		if l.value == nil {
			continue
		}
		existing, found, err := l.get(*l.value)
		if err != nil {
			return err
		}
		if found && existing.ID != selfID {
			return apperrors.Conflict("user", "%s '%s' already taken", l.field, *l.value)
		}
	}
	return nil
}
