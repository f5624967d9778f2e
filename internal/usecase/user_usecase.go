package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fexhq/fex/internal/domain"
)

// UserUseCase handles registration, authentication and user management.
type UserUseCase struct {
	txManager   TransactionManager
	userRepo    UserRepository
	accountRepo AccountRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *UserUseCase {
	return &UserUseCase{
		txManager:   txManager,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a user and their trading account in one unit of work.
// New accounts start pending with a zero balance until an admin
// activates them.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Account, error) {
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, domain.ErrEmailTaken
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		HashedPassword: hashedPassword,
		Role:           domain.RoleUser,
		Status:         domain.AccountStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		UserID:    user.ID,
		Balance:   decimal.Zero,
		Status:    domain.AccountStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.userRepo.Create(txCtx, tx, user); err != nil {
		return nil, nil, err
	}

	if err := uc.accountRepo.CreateTx(txCtx, tx, account); err != nil {
		return nil, nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       user.ID,
			Action:       string(domain.AuditActionUserRegister),
			ResourceType: "user",
			ResourceID:   user.ID,
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	user.HashedPassword = ""

	return user, account, nil
}

// AuthenticateInput represents authentication input.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if user.Status == domain.AccountStatusSuspended {
		return nil, domain.ErrUnauthorized
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       user.ID,
			Action:       string(domain.AuditActionUserLogin),
			ResourceType: "user",
			ResourceID:   user.ID,
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	user.HashedPassword = ""

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// UpdateUserStatus changes a user's status and mirrors it onto their
// account, so a suspended user can no longer trade.
func (uc *UserUseCase) UpdateUserStatus(ctx context.Context, userID string, status domain.AccountStatus) (*domain.User, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	before := user.Status
	user.Status = status
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateStatus(ctx, account.ID, status, now); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		actorID := user.ID
		if actor, ok := domain.UserFromContext(ctx); ok {
			actorID = actor.ID
		}

		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       actorID,
			Action:       string(domain.AuditActionUserStatusUpdate),
			ResourceType: "user",
			ResourceID:   user.ID,
			BeforeState:  domain.JSON{"status": string(before)},
			AfterState:   domain.JSON{"status": string(status)},
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	user.HashedPassword = ""

	return user, nil
}

// ListUsers lists all users with pagination.
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

// hashPassword hashes a password using bcrypt.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash.
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
