// Package codelistfile reads code list definitions from YAML files.
//
// Each file holds one list:
//
//	list: Sector
//	items:
//	  - vocabulary: "1"
//	    code: "11110"
//	    name: "Education policy and administrative management"
package codelistfile

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

//go:embed data/*.yaml
var bundled embed.FS

// Bundled returns the code lists shipped with the service.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(fmt.Sprintf("codelistfile: bundled data: %v", err))
	}
	return sub
}

type file struct {
	List  string                `yaml:"list"`
	Items []domain.CodeListItem `yaml:"items"`
}

// Parse decodes one code list file.
func Parse(r io.Reader) ([]domain.CodeListItem, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode code list: %w", err)
	}

	f.List = strings.TrimSpace(f.List)
	if f.List == "" {
		return nil, fmt.Errorf("decode code list: list name is required")
	}

	seen := make(map[[2]string]struct{}, len(f.Items))
	for i := range f.Items {
		item := &f.Items[i]
		item.List = f.List
		item.Code = strings.TrimSpace(item.Code)
		item.Vocabulary = strings.TrimSpace(item.Vocabulary)
		if item.Code == "" {
			return nil, fmt.Errorf("%s: items[%d]: code is required", f.List, i)
		}
		key := [2]string{item.Vocabulary, item.Code}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s: items[%d]: duplicate code %q", f.List, i, item.Code)
		}
		seen[key] = struct{}{}
	}

	return f.Items, nil
}

// Load reads every *.yaml file in fsys (non-recursive) in name order.
func Load(fsys fs.FS) ([]domain.CodeListItem, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list code list files: %w", err)
	}
	sort.Strings(names)

	var items []domain.CodeListItem
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		parsed, err := Parse(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		items = append(items, parsed...)
	}

	return items, nil
}
