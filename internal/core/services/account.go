package services

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TelegramLinkTTL bounds how long a /start token stays usable.
const TelegramLinkTTL = 15 * time.Minute

var linkTokenRegex = regexp.MustCompile(`^[0-9a-f]{32}$`)

// AccountInput is what a user may set on their own account.
type AccountInput struct {
	FullName string
	Email    *string
	Phone    *string
}

// TelegramLinkIssue is a token the user sends to the bot as
// "/start <token>".
type TelegramLinkIssue struct {
	Token     string
	ExpiresAt time.Time
}

// AccountService provisions portal accounts for authenticated subjects
// and links them to Telegram chats. Credentials live with the token
// issuer; this service only keeps the user row the verification flows
// reference.
type AccountService struct {
	tx       ports.TxManager
	users    ports.UserRepository
	links    ports.TelegramLinkRepository
	secSvc   ports.SecurityPort
	log      zerolog.Logger
	now      func() time.Time
	newToken func() (string, error)
}

func NewAccountService(
	tx ports.TxManager,
	users ports.UserRepository,
	links ports.TelegramLinkRepository,
	secSvc ports.SecurityPort,
	baseLogger *zerolog.Logger,
) *AccountService {
	return &AccountService{
		tx:       tx,
		users:    users,
		links:    links,
		secSvc:   secSvc,
		log:      baseLogger.With().Str("component", "account_service").Logger(),
		now:      time.Now,
		newToken: GenerateLinkToken,
	}
}

// Register creates the caller's user row on first use and updates it
// afterwards. The role always follows the session.
func (s *AccountService) Register(ctx context.Context, sess domain.Session, in AccountInput) (*domain.User, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	if !sess.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, sess.Role)
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrValidation)
	}
	if in.Phone != nil {
		if err := domain.ValidatePhone(*in.Phone); err != nil {
			return nil, err
		}
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if existing == nil {
			user = &domain.User{
				ID:       sess.UserID,
				FullName: name,
				Email:    in.Email,
				Phone:    in.Phone,
				Role:     sess.Role,
			}
			return s.users.Create(ctx, user)
		}
		existing.FullName = name
		existing.Email = in.Email
		existing.Phone = in.Phone
		existing.Role = sess.Role
		user = existing
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("Account saved")
	return user, nil
}

// Me returns the caller's account.
func (s *AccountService) Me(ctx context.Context, sess domain.Session) (*domain.User, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account is not registered", domain.ErrNotFound)
	}
	return user, nil
}

// IssueTelegramLink creates a one-time token for the caller, replacing
// any earlier one.
func (s *AccountService) IssueTelegramLink(ctx context.Context, sess domain.Session) (*TelegramLinkIssue, error) {
	if _, err := s.Me(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(TelegramLinkTTL)
	if err := s.links.Replace(ctx, sess.UserID, s.secSvc.Fingerprint([]byte(token)), expiresAt); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", sess.UserID.String()).Time("expires_at", expiresAt).Msg("Telegram link issued")
	return &TelegramLinkIssue{Token: token, ExpiresAt: expiresAt}, nil
}

// LinkTelegram binds chatID to the token's owner. A chat already bound
// to another account moves to the new one.
func (s *AccountService) LinkTelegram(ctx context.Context, token string, chatID int64) (*domain.User, error) {
	if !linkTokenRegex.MatchString(token) {
		return nil, fmt.Errorf("%w: malformed link token", domain.ErrValidation)
	}

	var user *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		userID, err := s.links.Consume(ctx, s.secSvc.Fingerprint([]byte(token)), s.now())
		if err != nil {
			return err
		}
		if userID == uuid.Nil {
			return fmt.Errorf("%w: link token is unknown or expired", domain.ErrNotFound)
		}

		user, err = s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: account is not registered", domain.ErrNotFound)
		}

		previous, err := s.users.GetByTelegramChatID(ctx, chatID)
		if err != nil {
			return err
		}
		if previous != nil && previous.ID != user.ID {
			previous.TelegramChatID = nil
			if err := s.users.Update(ctx, previous); err != nil {
				return err
			}
			s.log.Info().Str("user_id", previous.ID.String()).Msg("Telegram chat moved to another account")
		}

		user.TelegramChatID = &chatID
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Int64("chat_id", chatID).Msg("Telegram chat linked")
	return user, nil
}
