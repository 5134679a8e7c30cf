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

package catalog

import (
	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// Static returns the fixed catalog this repo ships: the animal/species
// pair used throughout spec.md §8's worked examples, plus the
// Album/Artist/Track trio (a small Chinook-shaped slice) used for the
// ORDER BY/LIMIT and multi-join examples. Column lists and index
// declarations mirror
// _examples/original_source/crates/core/src/catalog.rs's
// get_static_catalog() exactly.
func Static() Catalog {
	cols := func(names ...string) []schema.ColumnName {
		out := make([]schema.ColumnName, len(names))
		for i, n := range names {
			out[i] = schema.ColumnName(n)
		}
		return out
	}
	idx := func(table string, columns ...string) index.Declaration {
		return index.Declaration{Table: schema.TableName(table), Columns: cols(columns...)}
	}

	return Catalog{Tables: map[schema.TableName]Table{
		"animal": {
			Columns: cols("animal_id", "animal_name", "species_id"),
			Indexes: []index.Declaration{
				idx("animal", "animal_id"),
				idx("animal", "species_id"),
			},
		},
		"species": {
			Columns: cols("species_id", "species_name"),
			Indexes: []index.Declaration{
				idx("species", "species_id"),
			},
		},
		"Album": {
			Columns: cols("AlbumId", "Title", "ArtistId"),
			Indexes: []index.Declaration{
				idx("Album", "AlbumId"),
				idx("Album", "ArtistId"),
			},
		},
		"Artist": {
			Columns: cols("ArtistId", "Name"),
			Indexes: []index.Declaration{
				idx("Artist", "ArtistId"),
			},
		},
		"Track": {
			Columns: cols("TrackId", "Name", "AlbumId", "MediaTypeId", "GenreId", "Composer", "Milliseconds", "Bytes", "UnitPrice"),
			Indexes: []index.Declaration{
				idx("Track", "TrackId"),
				idx("Track", "AlbumId"),
				idx("Track", "MediaTypeId"),
				idx("Track", "GenreId"),
			},
		},
	}}
}

// StaticAnimalSpeciesRows builds the in-memory animal/species fixture rows
// spec.md §8's worked examples are defined against.
func StaticAnimalSpeciesRows() map[schema.TableName][]index.RawRecord {
	animal := func(id int64, name string, species int64) index.RawRecord {
		return index.RawRecord{
			"animal_id":   value.Int(id),
			"animal_name": value.String(name),
			"species_id":  value.Int(species),
		}
	}
	species := func(id int64, name string) index.RawRecord {
		return index.RawRecord{
			"species_id":   value.Int(id),
			"species_name": value.String(name),
		}
	}

	return map[schema.TableName][]index.RawRecord{
		"animal": {
			animal(1, "horse", 1),
			animal(2, "dog", 1),
			animal(3, "snake", 2),
		},
		"species": {
			species(1, "mammal"),
			species(2, "reptile"),
			species(3, "bird"),
		},
	}
}
