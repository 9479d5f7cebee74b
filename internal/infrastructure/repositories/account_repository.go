package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/you/regwizard/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM.
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags).
type DBAccount struct {
	ID             uint      `gorm:"primaryKey"`
	FirstName      string    `gorm:"size:64"`
	LastName       string    `gorm:"size:64"`
	Email          string    `gorm:"uniqueIndex;size:255"`
	DateOfBirth    time.Time
	Gender         string    `gorm:"size:16"`
	CountryCode    string    `gorm:"size:8"`
	PhoneNumber    string    `gorm:"index;size:32"`
	RecoveryEmail  string    `gorm:"size:255"`
	CredentialHash string    `gorm:"column:credential"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM.
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository. It runs inside a transaction so
// a failure leaves no half-created account, and re-checks email uniqueness
// under the same transaction since suggestions can race.
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&DBAccount{}).
			Where("LOWER(email) = ?", strings.ToLower(account.Email)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrEmailTaken
		}

		dbAccount := r.domainToDB(account)
		if err := tx.Create(dbAccount).Error; err != nil {
			return err
		}
		account.ID = dbAccount.ID
		account.CreatedAt = dbAccount.CreatedAt
		account.UpdatedAt = dbAccount.UpdatedAt
		return nil
	})
}

// FindByID implements domain.AccountRepository.
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// ExistsByEmail implements domain.AccountRepository with a case-insensitive
// match.
func (r *AccountRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAccount{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:             account.ID,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		Email:          account.Email,
		DateOfBirth:    account.DateOfBirth,
		Gender:         string(account.Gender),
		CountryCode:    account.CountryCode,
		PhoneNumber:    account.PhoneNumber,
		RecoveryEmail:  account.RecoveryEmail,
		CredentialHash: account.CredentialHash,
	}
}

func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:             dbAccount.ID,
		FirstName:      dbAccount.FirstName,
		LastName:       dbAccount.LastName,
		Email:          dbAccount.Email,
		DateOfBirth:    dbAccount.DateOfBirth,
		Gender:         domain.Gender(dbAccount.Gender),
		CountryCode:    dbAccount.CountryCode,
		PhoneNumber:    dbAccount.PhoneNumber,
		RecoveryEmail:  dbAccount.RecoveryEmail,
		CredentialHash: dbAccount.CredentialHash,
		CreatedAt:      dbAccount.CreatedAt,
		UpdatedAt:      dbAccount.UpdatedAt,
	}
}
