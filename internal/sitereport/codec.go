package sitereport

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/elliotchance/phpserialize"
)

// PluginListDecoder turns a stored active_plugins value into plugin file
// paths, in activation order.
type PluginListDecoder interface {
	Decode(raw []byte) ([]string, error)
}

// PHPSerializedDecoder decodes the PHP serialize() form WordPress uses,
// e.g. a:1:{i:0;s:19:"akismet/akismet.php";}.
type PHPSerializedDecoder struct{}

// Decode returns the array values ordered by their integer index. A blank
// value decodes to no plugins. Keys stored out of ascending order come back
// sorted, unlike PHP's unserialize which keeps insertion order.
func (PHPSerializedDecoder) Decode(raw []byte) ([]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	arr, err := phpserialize.UnmarshalAssociativeArray(raw)
	if err != nil {
		return nil, err
	}

	type entry struct {
		index int64
		value string
	}
	entries := make([]entry, 0, len(arr))
	for k, v := range arr {
		idx, ok := arrayIndex(k)
		if !ok {
			return nil, fmt.Errorf("unexpected array key %v (%T)", k, k)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value at index %d: %T", idx, v)
		}
		entries = append(entries, entry{index: idx, value: s})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	plugins := make([]string, len(entries))
	for i, e := range entries {
		plugins[i] = e.value
	}
	return plugins, nil
}

func arrayIndex(k interface{}) (int64, bool) {
	switch v := k.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}
