// Package option holds the typed preference store read by the planner.
// An Option is a flat key/value table; narrowed per-job configurations are
// produced with Copy and never share state with their source.
package option

import (
	"sort"
	"strconv"
)

// Option maps preference keys to their string values.
type Option struct {
	table map[string]string
}

// New returns an empty Option.
func New() *Option {
	return &Option{table: make(map[string]string)}
}

// Put sets key to value, replacing any previous value.
func (o *Option) Put(key, value string) {
	o.table[key] = value
}

// Get returns the value of key or "" if it is not defined.
func (o *Option) Get(key string) string {
	return o.table[key]
}

// GetInt returns the value of key as an int. Size suffixes (K, M) are
// understood. Undefined or malformed values yield 0.
func (o *Option) GetInt(key string) int {
	return int(o.GetInt64(key))
}

func (o *Option) GetInt64(key string) int64 {
	v, ok := o.table[key]
	if !ok || v == "" {
		return 0
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	n, err := ParseSize(v)
	if err != nil {
		return 0
	}
	return n
}

// GetBool reports whether key is set to "true".
func (o *Option) GetBool(key string) bool {
	return o.table[key] == True
}

// Defined reports whether key has been set, even to an empty value.
func (o *Option) Defined(key string) bool {
	_, ok := o.table[key]
	return ok
}

// Blank reports whether key is undefined or empty.
func (o *Option) Blank(key string) bool {
	return o.table[key] == ""
}

// Remove deletes key.
func (o *Option) Remove(key string) {
	delete(o.table, key)
}

// Copy returns an independent deep copy.
func (o *Option) Copy() *Option {
	c := &Option{table: make(map[string]string, len(o.table))}
	for k, v := range o.table {
		c.table[k] = v
	}
	return c
}

// Keys returns the defined keys in sorted order.
func (o *Option) Keys() []string {
	keys := make([]string, 0, len(o.table))
	for k := range o.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of defined keys.
func (o *Option) Len() int {
	return len(o.table)
}
