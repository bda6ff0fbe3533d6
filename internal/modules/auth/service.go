package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"piq/internal/domain"
	"piq/internal/logging"
	"piq/internal/pkg/apperr"
	"piq/internal/pkg/jwt"
	"piq/internal/repository"
)

// Service contains all business logic for authentication
type Service struct {
	users           UserRepository
	tokens          RefreshTokenStore
	issuer          TokenIssuer
	validator       TokenValidator
	logger          logging.Logger
	rotateOnReissue bool
	hashCost        int
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// ReissueResult carries a new access token. RefreshToken is set only when
// rotation is enabled.
type ReissueResult struct {
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepository,
	tokens RefreshTokenStore,
	issuer TokenIssuer,
	validator TokenValidator,
	logger logging.Logger,
	rotateOnReissue bool,
) *Service {
	return &Service{
		users:           users,
		tokens:          tokens,
		issuer:          issuer,
		validator:       validator,
		logger:          logger,
		rotateOnReissue: rotateOnReissue,
		hashCost:        bcrypt.DefaultCost,
	}
}

func subjectOf(u *domain.User) jwt.Subject {
	return jwt.Subject{ID: u.ID, Email: u.Email, Roles: u.RoleNames()}
}

// SignUp registers an active ROLE_USER identity.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*domain.User, error) {
	gender, ok := domain.ParseGender(req.Gender)
	if !ok {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "gender must be MALE or FEMALE")
	}

	user := &domain.User{
		Email:       domain.NormalizeEmail(req.Email),
		Nickname:    strings.TrimSpace(req.Nickname),
		KakaoTalkID: strings.TrimSpace(req.KakaoTalkID),
		InstagramID: strings.TrimSpace(req.InstagramID),
		Age:         req.Age,
		Gender:      gender,
		MBTI:        strings.ToUpper(strings.TrimSpace(req.MBTI)),
		Introduce:   req.Introduce,
		IsActive:    true,
		Roles:       []domain.Role{domain.RoleUser},
	}
	if err := s.register(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdminAccount registers an identity holding ROLE_USER and ROLE_ADMIN.
func (s *Service) CreateAdminAccount(ctx context.Context, email, password string) (*domain.User, error) {
	user := &domain.User{
		Email:       domain.NormalizeEmail(email),
		Nickname:    "admin",
		KakaoTalkID: "admin",
		Age:         1,
		Gender:      domain.GenderMale,
		Introduce:   "administrator",
		IsActive:    true,
		Roles:       []domain.Role{domain.RoleUser, domain.RoleAdmin},
	}
	if err := s.register(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) register(ctx context.Context, user *domain.User, password string) error {
	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperr.AlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.AlreadyRegistered
		}
		return err
	}
	return nil
}

// Login checks the credentials, issues both tokens and stores the refresh
// token before returning.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn(ctx, "login failed", "reason", apperr.UserNotFound.Code)
			return nil, apperr.UserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn(ctx, "login failed", "reason", apperr.PasswordMismatch.Code, "user_id", user.ID)
		return nil, apperr.PasswordMismatch
	}
	if !user.IsActive {
		s.logger.Warn(ctx, "login failed", "reason", apperr.DisabledAccount.Code, "user_id", user.ID)
		return nil, apperr.DisabledAccount
	}

	access, err := s.issuer.IssueAccessToken(subjectOf(user))
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefreshToken(subjectOf(user))
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, user.Email, refresh); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout drops the stored refresh token. Issued access tokens stay valid
// until they expire.
func (s *Service) Logout(ctx context.Context, email string) error {
	return s.tokens.Delete(ctx, email)
}

// Reissue exchanges a stored refresh token for a new access token.
func (s *Service) Reissue(ctx context.Context, refreshToken string) (*ReissueResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperr.MissingToken
	}

	claims, err := s.validator.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidRefreshToken, err)
	}
	email := claims.Subject

	stored, found, err := s.tokens.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.RefreshTokenNotFound
	}
	if stored != refreshToken {
		s.logger.Warn(ctx, "refresh token mismatch", "email", maskEmail(email))
		return nil, apperr.RefreshTokenMismatch
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.DisabledAccount
	}

	access, err := s.issuer.IssueAccessToken(subjectOf(user))
	if err != nil {
		return nil, err
	}
	result := &ReissueResult{AccessToken: access}

	if s.rotateOnReissue {
		next, err := s.issuer.IssueRefreshToken(subjectOf(user))
		if err != nil {
			return nil, err
		}
		if err := s.tokens.Save(ctx, user.Email, next); err != nil {
			return nil, err
		}
		result.RefreshToken = next
	}

	return result, nil
}

// maskEmail keeps the first letter of the local part and the domain.
func maskEmail(email string) string {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + host
}

// BootstrapAdmin creates the initial admin identity once. An existing account
// without ROLE_ADMIN gets the role appended. Missing settings are logged and
// skipped.
func (s *Service) BootstrapAdmin(ctx context.Context, enabled bool, email, password string) {
	if !enabled {
		return
	}
	if strings.TrimSpace(email) == "" || password == "" {
		s.logger.Warn(ctx, "admin bootstrap skipped", "reason", "email or password not configured")
		return
	}

	user, err := s.CreateAdminAccount(ctx, email, password)
	switch {
	case errors.Is(err, apperr.AlreadyRegistered):
		s.grantAdmin(ctx, email)
	case err != nil:
		s.logger.Error(ctx, "admin bootstrap failed", "error", err)
	default:
		s.logger.Info(ctx, "admin account created", "user_id", user.ID)
	}
}

func (s *Service) grantAdmin(ctx context.Context, email string) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		s.logger.Error(ctx, "admin bootstrap failed", "error", err)
		return
	}
	if user.HasRole(domain.RoleAdmin) {
		s.logger.Info(ctx, "admin bootstrap skipped", "reason", "account exists", "user_id", user.ID)
		return
	}
	if err := s.users.AddRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		s.logger.Error(ctx, "admin bootstrap failed", "error", err, "user_id", user.ID)
		return
	}
	s.logger.Info(ctx, "admin role granted", "user_id", user.ID)
}
