package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/billing"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/config"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput marks requests that fail business validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateAadhaar is returned when admitting a student whose Aadhaar is already on file
	ErrDuplicateAadhaar = errors.New("aadhaar already registered")
	// ErrSeatTaken is returned when a seat already has an active occupant
	ErrSeatTaken = errors.New("seat already assigned")
)

// Store is the persistence the service needs
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	AadhaarExists(ctx context.Context, fingerprint string) (bool, error)
	CreateStudent(ctx context.Context, s *models.Student) error
	ChangeMonthlyFee(ctx context.Context, studentID string, fee decimal.Decimal, at time.Time) error
	DeactivateStudent(ctx context.Context, studentID string, at time.Time) error
	ReactivateStudent(ctx context.Context, studentID string) error
	AssignSeat(ctx context.Context, studentID, seatID string) error
	ReleaseSeat(ctx context.Context, studentID string) error

	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListPaymentsByStudent(ctx context.Context, studentID string) ([]models.Payment, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	UpdatePayment(ctx context.Context, p *models.Payment) error
	DeletePayment(ctx context.Context, id string) error

	ListShifts(ctx context.Context) ([]models.Shift, error)
	ListHalls(ctx context.Context) ([]models.Hall, error)
}

// DigestSender delivers the daily dues digest
type DigestSender interface {
	SendDuesDigest(date time.Time, alerts models.Alerts, deactivated []string) error
}

// Service handles business logic
type Service struct {
	repo   Store
	log    *logrus.Logger
	config *config.Config
	engine *billing.Engine
	vault  *utils.IDVault
	mailer DigestSender
}

// NewService initializes a new service. mailer may be nil.
func NewService(repo Store, log *logrus.Logger, cfg *config.Config, engine *billing.Engine, vault *utils.IDVault, mailer DigestSender) *Service {
	return &Service{repo: repo, log: log, config: cfg, engine: engine, vault: vault, mailer: mailer}
}

// Register creates a new owner account with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates the owner and returns a JWT token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		s.log.Debugf("Login lookup failed for %s: %v", username, err)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.engine.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return tokenString, nil
}

// snapshot is everything the engine needs for library-wide queries
type snapshot struct {
	students []models.Student
	payments []models.Payment
	shifts   []models.Shift
}

func (s *Service) loadSnapshot(ctx context.Context, withShifts bool) (*snapshot, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{students: students, payments: payments}
	if withShifts {
		if snap.shifts, err = s.repo.ListShifts(ctx); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
