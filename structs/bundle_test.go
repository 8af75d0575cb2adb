package structs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleItemsDecodeMixed(t *testing.T) {
	var items BundleItems
	err := json.Unmarshal([]byte(`["לחם מחמצת", {"name": "ריבה", "description": "תות"}]`), &items)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, LabelItem("לחם מחמצת"), items[0])
	assert.Equal(t, DescribedItem{Name: "ריבה", Description: "תות"}, items[1])
	assert.Equal(t, []string{"לחם מחמצת", "ריבה"}, items.Names())

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `["לחם מחמצת", {"name": "ריבה", "description": "תות"}]`, string(out))
}

func TestBundleItemsDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"object without name": `[{"description": "x"}]`,
		"number":              `[42]`,
		"not a list":          `{"name": "x"}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var items BundleItems
			assert.Error(t, json.Unmarshal([]byte(raw), &items))
		})
	}
}

func TestBundleItemsNullAndScan(t *testing.T) {
	var items BundleItems
	require.NoError(t, json.Unmarshal([]byte(`null`), &items))
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, items.Scan(nil))
	assert.Empty(t, items)

	require.NoError(t, items.Scan([]byte(`["a"]`)))
	assert.Equal(t, []string{"a"}, items.Names())

	assert.Error(t, items.Scan(12))

	v, err := BundleItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
