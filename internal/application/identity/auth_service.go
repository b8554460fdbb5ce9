package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// AuthService handles registration, authentication and account management
type AuthService struct {
	userRepo       identity.UserRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AuthService) publishDomainEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		user.ClearDomainEvents()
	}
}

// Register creates a new customer account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := identity.NewUser(req.Email, hash, req.DisplayName, identity.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	s.publishDomainEvents(ctx, user)

	response := ToUserResponse(user)
	return &response, nil
}

// RegisterSupplierUser creates an account linked to a supplier, for the portal
func (s *AuthService) RegisterSupplierUser(ctx context.Context, req RegisterRequest, supplierID uuid.UUID) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := identity.NewUser(req.Email, hash, req.DisplayName, identity.RoleSupplier)
	if err != nil {
		return nil, err
	}
	if err := user.LinkSupplier(supplierID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	s.publishDomainEvents(ctx, user)

	response := ToUserResponse(user)
	return &response, nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		SupplierID: user.SupplierID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.RecordLogin()
	_ = s.userRepo.Save(ctx, user)

	return &LoginResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err == nil && blacklisted {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), claims.IssuedAt.Time)
	if err == nil && invalidated {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
	}

	return s.jwtService.RefreshTokenPair(req.RefreshToken, user.Email, user.SupplierID)
}

// Logout revokes the presented token by blacklisting its JTI
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

// Me returns the current user's account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the current user's password and revokes all of
// their outstanding tokens.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := auth.CheckPassword(req.CurrentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
		}
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := user.ChangePassword(hash); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	_ = s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration())
	return nil
}

// List retrieves users for the admin console
func (s *AuthService) List(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToUserResponses(users), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Disable deactivates a user account and revokes their tokens
func (s *AuthService) Disable(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.Disable(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	_ = s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration())
	return nil
}

// Enable reactivates a disabled user account
func (s *AuthService) Enable(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.Enable(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
