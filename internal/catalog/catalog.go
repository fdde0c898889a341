// Package catalog serves the site content document: hero products,
// categories and their purchasable subcategories.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/blob"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/repository"
	"github.com/pskitchenware/storefront/pkg/common"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	repo  repository.CatalogRepository
	blobs blob.Store
	now   func() time.Time
}

func NewService(repo repository.CatalogRepository, blobs blob.Store) *Service {
	return &Service{repo: repo, blobs: blobs, now: time.Now}
}

// Load returns the stored content. The first run seeds the default content;
// a store or decode failure degrades to the default content.
func (s *Service) Load(ctx context.Context) *domain.SiteContent {
	data, err := s.repo.LoadDocument(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		content := DefaultContent()
		if err := s.persist(ctx, content); err != nil {
			zap.L().Error("seed default site content error", zap.Error(err), zap.String("namespace", "catalog"))
		}
		return content
	}
	if err != nil {
		zap.L().Error("load site content error", zap.Error(err), zap.String("namespace", "catalog"))
		return DefaultContent()
	}
	content, err := Decode(data)
	if err != nil {
		zap.L().Error("decode site content error", zap.Error(err), zap.String("namespace", "catalog"))
		return DefaultContent()
	}
	return content
}

// Save validates the content, uploads inline images and replaces the stored
// document.
func (s *Service) Save(ctx context.Context, content *domain.SiteContent) error {
	Normalize(content)
	if err := Validate(content); err != nil {
		return err
	}
	if err := s.materializeImages(ctx, content); err != nil {
		return err
	}
	if err := s.persist(ctx, content); err != nil {
		return err
	}
	zap.L().Info("site content saved",
		zap.Int("categories", len(content.Categories)),
		zap.Int("hero_products", len(content.HeroProducts)),
		zap.String("namespace", "catalog"))
	return nil
}

func (s *Service) persist(ctx context.Context, content *domain.SiteContent) error {
	data, err := Encode(content)
	if err != nil {
		return err
	}
	return s.repo.SaveDocument(ctx, data)
}

func (s *Service) materializeImages(ctx context.Context, content *domain.SiteContent) error {
	for i := range content.HeroProducts {
		hero := &content.HeroProducts[i]
		if err := s.materialize(ctx, &hero.ImageURL, "hero", hero.ProductID); err != nil {
			return err
		}
	}
	for i := range content.Categories {
		cat := &content.Categories[i]
		if err := s.materialize(ctx, &cat.ImageURL, "category", cat.ID); err != nil {
			return err
		}
		for j := range cat.Subcategories {
			sub := &cat.Subcategories[j]
			if err := s.materialize(ctx, &sub.ImageURL, "subcategory", sub.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// materialize replaces an inline data URL with the URL of the stored blob
func (s *Service) materialize(ctx context.Context, image *string, kind, id string) error {
	if !blob.IsDataURL(*image) {
		return nil
	}
	contentType, ext, data, err := blob.ParseDataURL(*image)
	if err != nil {
		return errors.Wrapf(ErrInvalidContent, "%s %s: %s", kind, id, err.Error())
	}
	if s.blobs == nil {
		return errors.New("image uploads are not configured")
	}
	name := fmt.Sprintf("%s-%s-%d.%s", kind, common.IfEmptyStr(common.Slugify(id), "item"), s.now().UnixMilli(), ext)
	url, err := s.blobs.Put(ctx, name, contentType, data)
	if err != nil {
		return errors.Wrapf(err, "store %s image", kind)
	}
	*image = url
	return nil
}

func (s *Service) Search(ctx context.Context, query string) []domain.Product {
	return SearchContent(s.Load(ctx), query)
}

// CategoryBySlug returns the category at /category/{slug} with its products
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, []domain.Product, error) {
	cat, ok := FindCategoryBySlug(s.Load(ctx), slug)
	if !ok {
		return nil, nil, ErrNotFound
	}
	return cat, CategoryProducts(cat), nil
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	p, _, ok := FindProduct(s.Load(ctx), id)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) HeroProducts(ctx context.Context) []domain.Product {
	return ResolveHeroProducts(s.Load(ctx))
}
