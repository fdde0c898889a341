package cart

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal serializes line items for client-side storage
func Marshal(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "marshal cart")
	}
	return data, nil
}

// Unmarshal restores line items. Rows without an id or with a quantity below
// 1 are dropped, and a repeated id keeps only its first row.
func Unmarshal(data []byte) ([]LineItem, error) {
	var raw []LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart")
	}
	items := make([]LineItem, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, item := range raw {
		if item.ID == "" || item.Quantity < 1 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items, nil
}
