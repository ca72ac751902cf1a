package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/domain/entity"
	repo "github.com/a704/dodream-backend/internal/domain/repository"
	"github.com/a704/dodream-backend/pkg/helpers"
)

// TeacherAuthService verifies teachers against the registry, signs them up and logs them in.
type TeacherAuthService struct {
	Registry    repo.RegistryRepository
	Users       repo.UserRepository
	Profiles    repo.TeacherProfileRepository
	Credentials repo.CredentialRepository
	Tx          repo.Transactor
	Hasher      PasswordHasher
	Logger      *logrus.Logger

	// Optional collaborators; nil disables the feature.
	Sessions  TokenIssuer
	Directory TeacherDirectory
	Notifier  LoginNotifier

	dummyHash string
}

func NewTeacherAuthService(
	registry repo.RegistryRepository,
	users repo.UserRepository,
	profiles repo.TeacherProfileRepository,
	credentials repo.CredentialRepository,
	tx repo.Transactor,
	hasher PasswordHasher,
	logger *logrus.Logger,
) *TeacherAuthService {
	s := &TeacherAuthService{
		Registry:    registry,
		Users:       users,
		Profiles:    profiles,
		Credentials: credentials,
		Tx:          tx,
		Hasher:      hasher,
		Logger:      logger,
	}
	// Compared against when the email is unknown so both failure paths pay for a hash check.
	if h, err := hasher.Hash("dodream-timing-placeholder"); err == nil {
		s.dummyHash = h
	}
	return s
}

// SignupInput is a teacher signup request. Password is the raw password and is
// only ever passed to the hasher.
type SignupInput struct {
	Name      string
	TeacherNo string
	Email     string
	Password  string
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Verify checks (name, teacherNo) against the registry. Read-only.
func (s *TeacherAuthService) Verify(ctx context.Context, name, teacherNo string) error {
	err := s.checkRegistry(ctx, name, teacherNo)
	verifyTotal.WithLabelValues(resultLabel(err)).Inc()
	return err
}

func (s *TeacherAuthService) checkRegistry(ctx context.Context, name, teacherNo string) error {
	ok, err := s.Registry.Exists(ctx, name, teacherNo)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIdentityMismatch
	}
	return nil
}

// Signup creates the teacher's User, TeacherProfile and PasswordCredential in one
// transaction and returns the new user id. The registry is checked again here:
// a prior Verify call comes from the client and proves nothing.
func (s *TeacherAuthService) Signup(ctx context.Context, in SignupInput) (string, error) {
	email := normalizeEmail(in.Email)
	var created *entity.User

	// Hashed before the transaction opens.
	hash, err := s.Hasher.Hash(in.Password)
	if err == nil {
		err = s.Tx.InTransaction(ctx, func(ctx context.Context) error {
			if err := s.checkRegistry(ctx, in.Name, in.TeacherNo); err != nil {
				return err
			}

			taken, err := s.Credentials.ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailAlreadyUsed
			}

			u := &entity.User{Name: in.Name, Role: entity.RoleTeacher}
			if err := s.Users.Create(ctx, u); err != nil {
				return err
			}

			if err := s.Profiles.Create(ctx, &entity.TeacherProfile{UserID: u.ID, TeacherNo: in.TeacherNo}); err != nil {
				return err
			}

			// The unique constraint still decides when two signups race past the pre-check.
			if err := s.Credentials.Create(ctx, &entity.PasswordCredential{UserID: u.ID, Email: email, PasswordHash: hash}); err != nil {
				if errors.Is(err, repo.ErrDuplicateEmail) {
					return ErrEmailAlreadyUsed
				}
				return err
			}

			created = u
			return nil
		})
	}
	signupTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		if !isTaxonomyError(err) && s.Logger != nil {
			s.Logger.WithError(err).WithField("teacher_no", in.TeacherNo).Error("teacher signup failed")
		}
		return "", err
	}

	s.indexTeacher(ctx, created)
	return created.ID, nil
}

// Authenticate returns the teacher owning email when password matches.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *TeacherAuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	cred, err := s.Credentials.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if s.dummyHash != "" {
			_ = s.Hasher.Compare(s.dummyHash, password)
		}
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Compare(cred.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	u, err := s.Users.GetByID(ctx, cred.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsTeacher() {
		return nil, ErrNotATeacher
	}
	return u, nil
}

// Login authenticates, opens a session and sends a login notification.
// The notification is best effort and never fails the login.
func (s *TeacherAuthService) Login(ctx context.Context, email, password string, meta LoginMeta) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	loginTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return nil, TokenPair{}, err
	}

	var pair TokenPair
	if s.Sessions != nil {
		pair, err = s.Sessions.IssueTokens(ctx, u)
		if err != nil {
			return nil, TokenPair{}, err
		}
	}

	if s.Notifier != nil {
		if meta.At.IsZero() {
			meta.At = time.Now()
		}
		if nErr := s.Notifier.NotifyLogin(ctx, u, normalizeEmail(email), meta); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithField("user_id", u.ID).Warn("login notification failed")
		}
	}

	return &LoginResponse{UserID: u.ID, Name: u.Name, Role: string(u.Role)}, pair, nil
}

// TeacherProfile returns the teacher profile for userID.
func (s *TeacherAuthService) TeacherProfile(ctx context.Context, userID string) (*entity.User, *entity.TeacherProfile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !u.IsTeacher() {
		return u, nil, nil
	}
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, nil, err
	}
	return u, p, nil
}

// SearchTeachers queries the teacher directory. Without a directory it returns no hits.
func (s *TeacherAuthService) SearchTeachers(ctx context.Context, q string, size int) ([]TeacherDoc, error) {
	if s.Directory == nil {
		return []TeacherDoc{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Directory.Search(ctx, q, size)
}

func (s *TeacherAuthService) indexTeacher(ctx context.Context, u *entity.User) {
	if s.Directory == nil || u == nil {
		return
	}
	doc := TeacherDoc{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
	if err := s.Directory.Index(ctx, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("teacher index failed")
	}
}

func isTaxonomyError(err error) bool {
	return errors.Is(err, ErrIdentityMismatch) ||
		errors.Is(err, ErrEmailAlreadyUsed) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrNotATeacher) ||
		errors.Is(err, helpers.ErrPasswordTooLong)
}
