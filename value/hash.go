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

package value

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// WriteTo appends a canonical byte encoding of v to digest, tagged with its
// Kind so that e.g. Int(0) and Float(0) never collide. This is the single
// encoding used both when an index is built and when it is probed
// (spec.md §9: "the hash function must be the same across index-build and
// index-probe within one process").
func (v Value) WriteTo(digest *xxhash.Digest) {
	var kindByte [1]byte
	kindByte[0] = byte(v.kind)
	_, _ = digest.Write(kindByte[:])

	switch v.kind {
	case KindNull:
		// no payload
	case KindBool:
		if v.b {
			_, _ = digest.Write([]byte{1})
		} else {
			_, _ = digest.Write([]byte{0})
		}
	case KindInt:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.i))
		_, _ = digest.Write(buf[:])
	case KindFloat:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.f))
		_, _ = digest.Write(buf[:])
	case KindString:
		_, _ = digest.Write([]byte(v.s))
	}
}

// HashKey computes a deterministic (within this process) 64-bit hash of an
// ordered tuple of values — the composite key used by index.Build and
// index.Constructed.Lookup.
func HashKey(values []Value) uint64 {
	digest := xxhash.New()
	for _, v := range values {
		v.WriteTo(digest)
		// separator so ("ab","c") and ("a","bc") don't collide on the
		// string payload alone
		_, _ = digest.Write([]byte{0xff})
	}
	return digest.Sum64()
}
