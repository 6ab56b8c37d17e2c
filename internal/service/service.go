package service

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence the service needs. The PostgreSQL repository
// implements it.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	SeedReferenceData(ctx context.Context) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTypes(ctx context.Context) ([]models.Type, error)

	CreateTransaction(ctx context.Context, t models.NewTransaction) (int64, error)
	GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id, userID int64, u models.TransactionUpdate) error
	DeleteTransaction(ctx context.Context, id, userID int64) error

	CategorySums(ctx context.Context, userID int64, p models.Period) ([]models.CategorySum, error)
	StatementRows(ctx context.Context, userID int64, p models.Period) ([]models.CategorySum, []models.Transaction, error)
}

// Service handles business logic
type Service struct {
	store  Store
	log    *logrus.Logger
	config *config.Config

	bcryptCost int
	tokenTTL   time.Duration
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		log:        log,
		config:     cfg,
		bcryptCost: bcrypt.DefaultCost,
		tokenTTL:   24 * time.Hour,
		now:        time.Now,
	}
}
