package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nickgeorgouses/note-app/internal/common/clock"
	"github.com/nickgeorgouses/note-app/internal/common/constants"
	commoncrypto "github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	notedomain "github.com/nickgeorgouses/note-app/internal/note/domain"
	userdomain "github.com/nickgeorgouses/note-app/internal/user/domain"
	userrepo "github.com/nickgeorgouses/note-app/internal/user/repository"
)

// WelcomeNoteWriter stores the note every new account starts with.
type WelcomeNoteWriter interface {
	Create(ctx context.Context, note notedomain.Note) (notedomain.ID, error)
}

type AuthService struct {
	users  userrepo.Repository
	notes  WelcomeNoteWriter
	hasher commoncrypto.PasswordHasher
	tokens *TokenIssuer
	clock  clock.Clock
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users userrepo.Repository,
	notes WelcomeNoteWriter,
	hasher commoncrypto.PasswordHasher,
	tokens *TokenIssuer,
	clock clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		notes:  notes,
		hasher: hasher,
		tokens: tokens,
		clock:  clock,
		log:    log,
	}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResult struct {
	Token string
	User  UserView
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateInput(input, ErrMissingRegisterFields, ErrPasswordTooShort); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration("invalid")
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrAuthFailed.WithCause(err)
	}

	user := userdomain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	user.ID, err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_user_exists",
			}).Warn("register failed: already exists")
			recordRegistration("conflict")
			return AuthResult{}, ErrUserExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrAuthFailed.WithCause(err)
	}

	if _, err := s.notes.Create(ctx, welcomeNote(user.ID, user.CreatedAt)); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_welcome_note_failed",
		}).Errorf("register failed: welcome note error: %v", err)
		s.rollbackUser(ctx, user)
		recordRegistration("error")
		return AuthResult{}, ErrAuthFailed.WithCause(err)
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		recordRegistration("error")
		return AuthResult{}, ErrAuthFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")
	recordRegistration("success")

	return AuthResult{Token: token, User: toView(user)}, nil
}

// rollbackUser removes an account whose welcome note could not be stored, so the username
// and email can be registered again.
func (s *AuthService) rollbackUser(ctx context.Context, user userdomain.User) {
	if err := s.users.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": user.Username,
			"user_id":  string(user.ID),
			"action":   "register_rollback_failed",
		}).Errorf("failed to delete user after welcome note error: %v", err)
	}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateInput(input, ErrMissingLoginFields, nil); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		recordLogin("invalid")
		return AuthResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyPasswordHash(), input.Password)
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			recordLogin("rejected")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLogin("error")
		return AuthResult{}, ErrAuthFailed.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordLogin("rejected")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin("error")
		return AuthResult{}, ErrAuthFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	recordLogin("success")

	return AuthResult{Token: token, User: toView(user)}, nil
}

// dummyPasswordHash is compared against on unknown emails so both rejection paths cost one
// bcrypt comparison.
func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			s.log.Errorf("failed to prepare dummy password hash: %v", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func welcomeNote(owner userdomain.ID, createdAt time.Time) notedomain.Note {
	return notedomain.Note{
		Title:     constants.WelcomeNoteTitle,
		Content:   constants.WelcomeNoteContent,
		UserID:    string(owner),
		CreatedAt: createdAt,
		SharedBy:  constants.WelcomeNoteSharer,
		IsShared:  true,
	}
}

func toView(user userdomain.User) UserView {
	return UserView{
		ID:       string(user.ID),
		Username: user.Username,
		Email:    user.Email,
	}
}
