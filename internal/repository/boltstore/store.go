// Package boltstore keeps the catalog document and the order log in a single
// bbolt file, for deployments that run without a database server.
package boltstore

import (
	"context"
	"encoding/binary"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/repository"
	"github.com/pskitchenware/storefront/pkg/common"
)

var (
	bucketSiteContent = []byte("site_content")
	bucketOrders      = []byte("orders")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the bolt file and ensures the buckets exist
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSiteContent, bucketOrders} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create buckets")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{db: s.db}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{db: s.db}
}

type CatalogRepository struct {
	db *bbolt.DB
}

func (r *CatalogRepository) LoadDocument(_ context.Context) ([]byte, error) {
	var data []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketSiteContent).Get([]byte(repository.SiteContentKey))
		if v == nil {
			return repository.ErrNotFound
		}
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (r *CatalogRepository) SaveDocument(_ context.Context, data []byte) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSiteContent).Put([]byte(repository.SiteContentKey), data)
	})
}

// OrderRepository keys rows by snowflake id in big-endian form, so cursor
// order is insertion order.
type OrderRepository struct {
	db *bbolt.DB
}

func orderKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (r *OrderRepository) Append(_ context.Context, input domain.OrderInput) (*domain.Order, error) {
	id := common.UUIDint64()
	order := domain.Order{
		ID:          strconv.FormatInt(id, 10),
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
		Size:        input.Size,
		Price:       input.Price,
		CheckoutID:  input.CheckoutID,
		UserID:      input.UserID,
		Date:        time.Now().UTC(),
	}
	data, err := json.Marshal(order)
	if err != nil {
		return nil, errors.Wrap(err, "encode order")
	}
	err = r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOrders).Put(orderKey(id), data)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "append order %s", input.ProductName)
	}
	return &order, nil
}

// each walks the orders newest first until f returns false
func (r *OrderRepository) each(f func(order domain.Order) bool) error {
	return r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketOrders).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var order domain.Order
			if err := json.Unmarshal(v, &order); err != nil {
				return errors.Wrapf(err, "decode order %d", binary.BigEndian.Uint64(k))
			}
			if !f(order) {
				return nil
			}
		}
		return nil
	})
}

func (r *OrderRepository) List(_ context.Context) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	err := r.each(func(order domain.Order) bool {
		orders = append(orders, order)
		return true
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) Page(_ context.Context, page, pageSize int) ([]domain.Order, int64, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)
	var total int64
	err := r.db.View(func(tx *bbolt.Tx) error {
		total = int64(tx.Bucket(bucketOrders).Stats().KeyN)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * pageSize
	orders := make([]domain.Order, 0, pageSize)
	err = r.each(func(order domain.Order) bool {
		if skip > 0 {
			skip--
			return true
		}
		orders = append(orders, order)
		return len(orders) < pageSize
	})
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
