package auth

import (
	"context"
	"regexp"
	"strings"

	"github.com/agroconnect/agroconnect-backend/internal/users"
	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/agroconnect/agroconnect-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	minPasswordLength  = 6
	phoneDigits        = 10
	emailTakenMessage  = "This email is already registered. Please use a different email or login."
	invalidTypeMessage = "Please choose buyer or seller"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// RegisterService handles account creation.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	users       *users.Repository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		users:       users.NewRepository(params.DB.DB()),
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	userType, err := validateRegistration(&req)
	if err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)

		exists, err := userRepo.EmailExists(ctx, req.Email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if exists {
			return emailTakenError()
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			Address:      req.Address,
			PasswordHash: passwordHash,
			UserType:     userType,
		})
		if err != nil {
			// two signups racing past the pre-check collide on the unique index
			if db.IsUniqueViolation(err, "") {
				return emailTakenError()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register user")
	}
	return created, nil
}

// validateRegistration applies the signup form rules in display order and
// returns the resolved user type.
func validateRegistration(req *RegisterRequest) (enums.UserType, error) {
	var fields pkgerrors.FieldErrors

	if strings.TrimSpace(req.FullName) == "" {
		fields.Add("full_name", "Full name is required")
	}

	validateEmail(&fields, req.Email)

	if strings.TrimSpace(req.Phone) == "" {
		fields.Add("phone", "Phone number is required")
	} else if len(nonDigits.ReplaceAllString(req.Phone, "")) != phoneDigits {
		fields.Add("phone", "Phone number must be 10 digits")
	}

	if strings.TrimSpace(req.Address) == "" {
		fields.Add("address", "Address is required")
	}

	if req.Password == "" {
		fields.Add("password", "Password is required")
	} else if len([]rune(req.Password)) < minPasswordLength {
		fields.Add("password", "Password must be at least 6 characters")
	}

	if req.Password != req.ConfirmPassword {
		fields.Add("confirm_password", "Passwords do not match")
	}

	if !req.AgreeTerms {
		fields.Add("agree_terms", "You must agree to terms and conditions")
	}

	userType := req.UserType
	if userType == "" {
		userType = enums.UserTypeBuyer
	}
	if parsed, err := enums.ParseUserType(userType.String()); err == nil {
		userType = parsed
	} else {
		fields.Add("user_type", invalidTypeMessage)
	}

	return userType, fields.Err()
}

func emailTakenError() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage).WithDetails(map[string]string{"email": emailTakenMessage})
}

func validateEmail(fields *pkgerrors.FieldErrors, email string) {
	trimmed := strings.TrimSpace(email)
	switch {
	case trimmed == "":
		fields.Add("email", "Email is required")
	case !emailPattern.MatchString(trimmed):
		fields.Add("email", "Email is invalid")
	}
}
