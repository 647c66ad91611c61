/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"chefmenu/internal/domain"
)

//go:embed collection.schema.json
var collectionSchemaJSON string

var collectionSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(collectionSchemaJSON))
})

// DecodeError reports a stored payload that is not a valid menu collection.
type DecodeError struct {
	Problems []string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "decode collection: " + e.Err.Error()
	}
	return "decode collection: " + strings.Join(e.Problems, "; ")
}

func (e *DecodeError) Unwrap() error { return e.Err }

// decodeCollection validates raw against the collection schema and decodes it.
func decodeCollection(raw string) ([]domain.MenuItem, error) {
	schema, err := collectionSchema()
	if err != nil {
		return nil, fmt.Errorf("load collection schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		// not JSON at all
		return nil, &DecodeError{Err: err}
	}
	if !res.Valid() {
		de := &DecodeError{}
		for _, re := range res.Errors() {
			de.Problems = append(de.Problems, re.String())
		}
		return nil, de
	}
	var items []domain.MenuItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return items, nil
}

func encodeCollection(items []domain.MenuItem) (string, error) {
	if items == nil {
		items = []domain.MenuItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}
	return string(b), nil
}
