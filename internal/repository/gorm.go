package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/pkg/common"
)

// GormCatalogRepository is the GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM-based catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) LoadDocument(ctx context.Context) ([]byte, error) {
	var doc domain.SiteContentDocument
	err := r.db.WithContext(ctx).Where("id = ?", SiteContentKey).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query site content")
	}
	return []byte(doc.Data), nil
}

func (r *GormCatalogRepository) SaveDocument(ctx context.Context, data []byte) error {
	doc := domain.SiteContentDocument{ID: SiteContentKey, Data: string(data)}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	return errors.Wrap(err, "save site content")
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Append(ctx context.Context, input domain.OrderInput) (*domain.Order, error) {
	order := domain.Order{
		ID:          common.UUIDString(),
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
		Size:        input.Size,
		Price:       input.Price,
		CheckoutID:  input.CheckoutID,
		UserID:      input.UserID,
		Date:        time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, errors.Wrapf(err, "append order %s", input.ProductName)
	}
	return &order, nil
}

func (r *GormOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (r *GormOrderRepository) Page(ctx context.Context, page, pageSize int) ([]domain.Order, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	query := r.db.WithContext(ctx).Model(&domain.Order{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	var orders []domain.Order
	err := query.
		Order("date DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "page orders")
	}
	return orders, total, nil
}

// GormUserRepository is the GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindOrCreateUser(ctx context.Context, email, name, phone string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "query user")
	}

	now := time.Now()
	user = domain.User{
		ID:        "user_" + common.UUIDString(),
		Email:     email,
		Name:      name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return &user, nil
}

func (r *GormUserRepository) FindOrCreateAddress(ctx context.Context, userID string, addr domain.Address) (*domain.SavedAddress, error) {
	var saved domain.SavedAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND address = ? AND pincode = ?", userID, addr.Address, addr.Pincode).
		First(&saved).Error
	if err == nil {
		return &saved, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "query address")
	}

	saved = domain.SavedAddress{
		ID:        "addr_" + common.UUIDString(),
		UserID:    userID,
		Name:      addr.Name,
		Phone:     addr.Phone,
		Address:   addr.Address,
		Pincode:   addr.Pincode,
		IsDefault: false,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&saved).Error; err != nil {
		return nil, errors.Wrap(err, "create address")
	}
	return &saved, nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user")
	}
	return &user, nil
}

func (r *GormUserRepository) ListAddresses(ctx context.Context, userID string) ([]domain.SavedAddress, error) {
	var addrs []domain.SavedAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addrs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list addresses")
	}
	return addrs, nil
}

func (r *GormUserRepository) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.SavedAddress{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return errors.Wrap(err, "reset default address")
		}
		res := tx.Model(&domain.SavedAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return errors.Wrap(res.Error, "set default address")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
