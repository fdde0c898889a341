package catalog

import (
	"net/url"
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/pskitchenware/storefront/internal/blob"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidContent wraps every shape violation found by Validate
var ErrInvalidContent = errors.New("invalid site content")

// blankToNil leaves optional pointers unset for empty form values
func blankToNil(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Ptr {
		if strings.TrimSpace(data.(string)) == "" {
			return nil, nil
		}
	}
	return data, nil
}

// Decode reads a stored document. Prices may arrive as numbers or numeric
// strings; missing lists become empty lists.
func Decode(data []byte) (*domain.SiteContent, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse site content")
	}
	var content domain.SiteContent
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       blankToNil,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           &content,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "decode site content")
	}
	Normalize(&content)
	return &content, nil
}

// Encode is the stored form of the document
func Encode(content *domain.SiteContent) ([]byte, error) {
	data, err := json.Marshal(content)
	return data, errors.Wrap(err, "encode site content")
}

// Normalize fills empty lists and derives missing hrefs
func Normalize(content *domain.SiteContent) {
	if content.HeroProducts == nil {
		content.HeroProducts = []domain.HeroProduct{}
	}
	if content.Categories == nil {
		content.Categories = []domain.Category{}
	}
	for i := range content.Categories {
		cat := &content.Categories[i]
		if cat.Subcategories == nil {
			cat.Subcategories = []domain.SubCategory{}
		}
		if cat.Href == "" && cat.Name != "" {
			cat.Href = CategoryHref(cat.Name)
		}
		for j := range cat.Subcategories {
			sub := &cat.Subcategories[j]
			if sub.Href == "" && sub.Name != "" {
				sub.Href = SubCategoryHref(cat.Href, sub.Name)
			}
		}
	}
}

func CategoryHref(name string) string {
	return "/category/" + common.Slugify(name)
}

func SubCategoryHref(categoryHref, name string) string {
	return categoryHref + "/" + common.Slugify(name)
}

// checkImage accepts inline image payloads, absolute http urls and
// site-relative paths
func checkImage(raw string) error {
	if blob.IsDataURL(raw) {
		_, _, _, err := blob.ParseDataURL(raw)
		return err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Errorf("%q is not a url", raw)
	}
	if u.IsAbs() {
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("%q is not an http url", raw)
		}
		return nil
	}
	if !strings.HasPrefix(raw, "/") {
		return errors.Errorf("%q is not an absolute url or site path", raw)
	}
	return nil
}

// Validate checks ids, sizes, prices, images and hero references. Every
// purchasable subcategory needs an image of its own or of its category.
func Validate(content *domain.SiteContent) error {
	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, errors.Errorf(format, args...).Error())
	}
	checkPrice := func(owner string, p *float64) {
		if p != nil && *p < 0 {
			addf("%s: price must not be negative", owner)
		}
	}
	checkImageOf := func(owner, image string) {
		if image == "" {
			return
		}
		if err := checkImage(image); err != nil {
			addf("%s: invalid image: %s", owner, err.Error())
		}
	}

	categoryIDs := make(map[string]bool)
	productIDs := make(map[string]bool)
	for _, cat := range content.Categories {
		switch {
		case strings.TrimSpace(cat.ID) == "":
			addf("category %q: id is required", cat.Name)
		case categoryIDs[cat.ID]:
			addf("category %s: duplicate id", cat.ID)
		}
		categoryIDs[cat.ID] = true
		if strings.TrimSpace(cat.Name) == "" {
			addf("category %s: name is required", cat.ID)
		}
		checkImageOf("category "+cat.ID, cat.ImageURL)
		for _, sub := range cat.Subcategories {
			switch {
			case strings.TrimSpace(sub.ID) == "":
				addf("subcategory %q: id is required", sub.Name)
			case productIDs[sub.ID]:
				addf("subcategory %s: duplicate id", sub.ID)
			}
			productIDs[sub.ID] = true
			if strings.TrimSpace(sub.Name) == "" {
				addf("subcategory %s: name is required", sub.ID)
			}
			checkPrice("subcategory "+sub.ID, sub.Price)
			checkImageOf("subcategory "+sub.ID, sub.ImageURL)
			if strings.TrimSpace(sub.ImageURL) == "" && strings.TrimSpace(cat.ImageURL) == "" {
				addf("subcategory %s: image is required when the category has none", sub.ID)
			}
			sizeNames := make(map[string]bool)
			for _, size := range sub.Sizes {
				if strings.TrimSpace(size.Name) == "" {
					addf("subcategory %s: size name is required", sub.ID)
				} else if sizeNames[size.Name] {
					addf("subcategory %s: duplicate size %s", sub.ID, size.Name)
				}
				sizeNames[size.Name] = true
				checkPrice("subcategory "+sub.ID+" size "+size.Name, size.Price)
			}
		}
	}
	for _, hero := range content.HeroProducts {
		if !productIDs[hero.ProductID] {
			addf("hero product %q: unknown product", hero.ProductID)
		}
		checkImageOf("hero product "+hero.ProductID, hero.ImageURL)
	}

	if len(problems) > 0 {
		return errors.Wrap(ErrInvalidContent, strings.Join(problems, "; "))
	}
	return nil
}
