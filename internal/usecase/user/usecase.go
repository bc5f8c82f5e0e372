package user

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"places-service/internal/domain"
	userdomain "places-service/internal/domain/user"
	apperrors "places-service/pkg/errors"
	"places-service/pkg/logger"
)

// Repository defines the interface for user data access operations.
// Lookups return nil, nil when no user matches.
type Repository interface {
	Create(ctx context.Context, u *userdomain.User) error                   // Create fails with ErrEmailTaken on duplicates
	GetByID(ctx context.Context, id string) (*userdomain.User, error)       // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error) // Retrieve user by email
	List(ctx context.Context) ([]userdomain.User, error)                    // List every user
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

var (
	errEmailExists      = apperrors.NewAlreadyExistsError("user", "Email already exists, try with other email.")
	errWrongCredentials = apperrors.ErrForbidden
)

// Usecase implements account sign-up, log-in and listing.
type Usecase struct {
	repo     Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new instance of Usecase.
func New(r Repository, hasher PasswordHasher, tokens TokenIssuer, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: hasher, tokens: tokens, log: log, validate: validator.New()}
}

// SignUp creates an account and returns a session token for it.
func (uc *Usecase) SignUp(ctx context.Context, in SignUpRequest) (*AuthResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	in.Email = domain.NormalizeEmail(in.Email)
	log.Info("signing up user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("Signing up failed, please try again later.", err)
	}
	if existing != nil {
		log.Warn("email already exists", zap.String("email", in.Email))
		return nil, errEmailExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("Could not create user, please try again.", err)
	}

	created := &userdomain.User{
		ID:       domain.NewID(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Image:    in.Image,
		PlaceIDs: []string{},
	}

	if err := uc.repo.Create(ctx, created); err != nil {
		// a concurrent sign-up can pass the lookup above and still lose on the unique index
		if errors.Is(err, userdomain.ErrEmailTaken) {
			log.Warn("email taken during create", zap.String("email", in.Email))
			return nil, errEmailExists
		}
		log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("Signing up failed, please try again later.", err)
	}

	token, err := uc.tokens.Issue(created.ID, created.Email)
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", created.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Signing up failed, please try again later.", err)
	}

	log.Info("user signed up", zap.String("user_id", created.ID))
	return &AuthResponse{UserID: created.ID, Email: created.Email, Token: token}, nil
}

// LogIn checks credentials and returns a session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (uc *Usecase) LogIn(ctx context.Context, in LogInRequest) (*AuthResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	email := domain.NormalizeEmail(in.Email)

	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to load user for login", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("Logging in failed, please try again later.", err)
	}
	if existing == nil {
		log.Info("login rejected: unknown email", zap.String("email", email))
		return nil, errWrongCredentials
	}

	ok, err := uc.hasher.Verify(in.Password, existing.Password)
	if err != nil {
		log.Error("failed to verify password", zap.String("user_id", existing.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Could not log you in, please check your credentials and try again.", err)
	}
	if !ok {
		log.Info("login rejected: wrong password", zap.String("user_id", existing.ID))
		return nil, errWrongCredentials
	}

	token, err := uc.tokens.Issue(existing.ID, existing.Email)
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", existing.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("Logging in failed, please try again later.", err)
	}

	return &AuthResponse{UserID: existing.ID, Email: existing.Email, Token: token}, nil
}

// ListUsers returns every user without password hashes.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewInternalError("Fetching users failed, please try again later.", err)
	}

	out := make([]User, len(users))
	for i, u := range users {
		placeIDs := u.PlaceIDs
		if placeIDs == nil {
			placeIDs = []string{}
		}
		out[i] = User{
			ID:       u.ID,
			Name:     u.Name,
			Email:    u.Email,
			Image:    u.Image,
			PlaceIDs: placeIDs,
		}
	}
	return &ListUsersResponse{Users: out}, nil
}
