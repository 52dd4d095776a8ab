package datasets

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Dataset)
	mu       sync.RWMutex
)

// Register adds a dataset to the registry.
func Register(ds Dataset) {
	mu.Lock()
	defer mu.Unlock()
	registry[ds.Name()] = ds
}

// Get retrieves a dataset by name.
func Get(name string) (Dataset, error) {
	mu.RLock()
	defer mu.RUnlock()

	ds, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset: %s", name)
	}
	return ds, nil
}

// List returns all registered dataset names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered datasets, sorted by name.
func All() []Dataset {
	mu.RLock()
	defer mu.RUnlock()

	all := make([]Dataset, 0, len(registry))
	for _, ds := range registry {
		all = append(all, ds)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// Table returns the named table definition of a dataset.
func Table(ds Dataset, name string) (TableDefinition, error) {
	for _, t := range ds.Tables() {
		if t.Name == name {
			return t, nil
		}
	}
	return TableDefinition{}, fmt.Errorf("dataset %s has no table %s", ds.Name(), name)
}
