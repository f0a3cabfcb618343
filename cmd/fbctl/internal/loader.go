/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import (
	"fmt"
	"os"

	"github.com/fbdialect/internal/service"
)

// LoadFile decodes the declared objects of a multi-document YAML file.
func LoadFile(path string) ([]service.Object, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	objs, err := service.DecodeObjects(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(objs) == 0 {
		return nil, fmt.Errorf("%s: no objects declared", path)
	}
	return objs, nil
}

// FilterKind keeps the objects of one kind, or all when kind is empty.
func FilterKind(objs []service.Object, kind string) []service.Object {
	if kind == "" {
		return objs
	}
	var out []service.Object
	for _, o := range objs {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}
