// SPDX-License-Identifier: MIT

package builder

import "strconv"

// IDFn generates a vertex identifier from its zero-based index.
// It must be pure: the same idx always yields the same string.
type IDFn func(idx int) string

// DefaultIDFn returns the decimal string of idx, e.g. 0→"0", 42→"42".
func DefaultIDFn(idx int) string {
	return strconv.Itoa(idx)
}

// ModuleIDFn is the default modular-network scheme "<module>_<index>",
// e.g. (1, 4) → "1_4".
func ModuleIDFn(module, idx int) string {
	return strconv.Itoa(module) + "_" + strconv.Itoa(idx)
}

// PrefixIDFn returns an IDFn yielding prefix+decimal index.
func PrefixIDFn(prefix string) IDFn {
	return func(idx int) string { return prefix + strconv.Itoa(idx) }
}
