package structs

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// BundleItem is either a bare label or a named item with a description.
// The two variants are encoded as a JSON string and a {"name","description"}
// object respectively, and only the codec below ever inspects the shape.
type BundleItem interface {
	DisplayName() string
	isBundleItem()
}

// LabelItem is an included item that only has a display label
type LabelItem string

func (l LabelItem) DisplayName() string { return string(l) }
func (LabelItem) isBundleItem() {}

type DescribedItem struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (d DescribedItem) DisplayName() string { return d.Name }
func (DescribedItem) isBundleItem() {}

type BundleItems []BundleItem

func (items BundleItems) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var (
			raw []byte
			err error
		)
		switch v := item.(type) {
		case LabelItem:
			raw, err = json.Marshal(string(v))
		case DescribedItem:
			raw, err = json.Marshal(v)
		case *DescribedItem:
			raw, err = json.Marshal(*v)
		default:
			err = fmt.Errorf("unsupported bundle item %T", item)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func (items *BundleItems) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*items = BundleItems{}
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	parsed := make(BundleItems, 0, len(raws))
	for i, raw := range raws {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '"':
			var label string
			if err := json.Unmarshal(raw, &label); err != nil {
				return err
			}
			parsed = append(parsed, LabelItem(label))
		case '{':
			var d DescribedItem
			if err := json.Unmarshal(raw, &d); err != nil {
				return err
			}
			if d.Name == "" {
				return fmt.Errorf("bundle item %d: name is required", i)
			}
			parsed = append(parsed, d)
		default:
			return fmt.Errorf("bundle item %d: expected string or object", i)
		}
	}
	*items = parsed
	return nil
}

// Value stores the list as jsonb
func (items BundleItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := items.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (items *BundleItems) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*items = BundleItems{}
		return nil
	case []byte:
		return items.UnmarshalJSON(v)
	case string:
		return items.UnmarshalJSON([]byte(v))
	default:
		return errors.New("bundle items: unsupported column type")
	}
}

// Names returns the display name of each item in order
func (items BundleItems) Names() []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.DisplayName())
	}
	return names
}
