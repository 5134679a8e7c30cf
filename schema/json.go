// Copyright 2026 The miniql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"bytes"
	"encoding/json"

	"github.com/danieljharvey/miniql/value"
)

// ToJSONRows renders a QueryStep as the ordered sequence of JSON objects
// spec.md §4.7 describes: one object per row, one entry per schema column,
// keyed by the column's display string. Duplicate keys resolve to the
// first matching schema index, matching the resolution rule §4.7 states
// for downstream consumers.
func (qs QueryStep) ToJSONRows() ([]json.RawMessage, error) {
	keys := make([]string, len(qs.Schema.Columns))
	firstIndexForKey := make(map[string]int, len(qs.Schema.Columns))
	for i, sc := range qs.Schema.Columns {
		key := sc.String()
		keys[i] = key
		if _, seen := firstIndexForKey[key]; !seen {
			firstIndexForKey[key] = i
		}
	}

	out := make([]json.RawMessage, 0, len(qs.Rows))
	for _, row := range qs.Rows {
		var buf bytes.Buffer
		buf.WriteByte('{')
		first := true
		for i, key := range keys {
			if firstIndexForKey[key] != i {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false

			keyJSON, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			valJSON, err := value.ToJSON(row.Items[i])
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		out = append(out, json.RawMessage(buf.Bytes()))
	}
	return out, nil
}
