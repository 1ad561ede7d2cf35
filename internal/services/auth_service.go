package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"msgboard/internal/domain/session"
	"msgboard/internal/domain/user"
	"msgboard/internal/repository"
	board_errors "msgboard/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	validate   *validator.Validate
	now        func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		validate:   validator.New(),
		now:        time.Now,
	}
}

type RegisterInput struct {
	Username string `validate:"required,min=3,max=32,alphanum"`
	Password string `validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// dummyHash keeps unknown-user logins as slow as wrong-password logins.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// Register stores a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (session.Session, error) {
	in.Username = normalizeUsername(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return session.Anonymous, fmt.Errorf("%w: %s", board_errors.ErrInvalidInput, validationMessage(err))
	}

	if _, err := s.users.GetUserByUsername(ctx, in.Username); err == nil {
		return session.Anonymous, board_errors.ErrAlreadyExists
	} else if !errors.Is(err, board_errors.ErrNotFound) {
		return session.Anonymous, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return session.Anonymous, err
	}

	newUser := user.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		return session.Anonymous, err
	}

	return s.startSession(ctx, newUser)
}

// Login checks the credentials and opens a session. Unknown users and wrong
// passwords both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (session.Session, error) {
	in.Username = normalizeUsername(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return session.Anonymous, fmt.Errorf("%w: %s", board_errors.ErrInvalidInput, validationMessage(err))
	}

	u, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, board_errors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return session.Anonymous, board_errors.ErrInvalidCredentials
		}
		return session.Anonymous, err
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return session.Anonymous, board_errors.ErrInvalidCredentials
	}

	return s.startSession(ctx, u)
}

// Logout destroys the session. Logging out an anonymous session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess session.Session) error {
	if sess.IsAnonymous() {
		return nil
	}
	return s.sessions.Delete(ctx, sess.ID)
}

// Current resolves a session id. Unknown, expired or mismatched sessions are
// anonymous, not errors; only store failures are reported.
func (s *AuthService) Current(ctx context.Context, sessionID, userID string) (session.Session, error) {
	if sessionID == "" {
		return session.Anonymous, nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, board_errors.ErrNotFound) {
			return session.Anonymous, nil
		}
		return session.Anonymous, err
	}

	if sess.Expired(s.now()) || (userID != "" && sess.UserID != userID) {
		return session.Anonymous, nil
	}
	return sess, nil
}

func (s *AuthService) startSession(ctx context.Context, u user.User) (session.Session, error) {
	sess := session.New(u.ID, u.Username, s.now(), s.sessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Anonymous, err
	}
	return sess, nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, board_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, board_errors.ErrUnauthorized), errors.Is(err, board_errors.ErrInvalidCredentials):
		return 401
	case errors.Is(err, board_errors.ErrForbidden):
		return 403
	case errors.Is(err, board_errors.ErrNotFound):
		return 404
	case errors.Is(err, board_errors.ErrNotUpdatable):
		return 405
	case errors.Is(err, board_errors.ErrAlreadyExists):
		return 409
	case errors.Is(err, board_errors.ErrRateLimited):
		return 429
	default:
		return 500
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "alphanum":
		return field + " must contain only letters and digits"
	default:
		return field + " is invalid"
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
