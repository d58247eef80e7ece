// Package winpath manipulates Windows-style paths independently of the host
// platform. The VFS capability only exists on Windows, but the surrounding
// code and its tests must behave identically everywhere, so path/filepath
// (which switches separators per GOOS) is not usable here.
package winpath

import "strings"

const separators = `\/`

// Dir returns all but the last element of path. The trailing separator after
// a drive root is kept, so Dir(`C:\foo.exe`) is `C:\`.
func Dir(path string) string {
	idx := strings.LastIndexAny(path, separators)
	if idx < 0 {
		return "."
	}
	dir := path[:idx]
	if strings.HasSuffix(dir, ":") {
		return dir + path[idx:idx+1]
	}
	if dir == "" {
		return path[:1]
	}
	return dir
}

// Join joins path elements with a backslash, skipping empty elements and
// collapsing separators at the seams.
func Join(elems ...string) string {
	result := ""
	for _, elem := range elems {
		if elem == "" {
			continue
		}
		if result == "" {
			result = elem
			continue
		}
		result = strings.TrimRight(result, separators) + `\` + strings.TrimLeft(elem, separators)
	}
	return result
}

// Base returns the last element of path, with trailing separators removed.
func Base(path string) string {
	path = strings.TrimRight(path, separators)
	if path == "" {
		return "."
	}
	return path[strings.LastIndexAny(path, separators)+1:]
}

// Rel returns path relative to root, using the path's own separators. It
// only handles the prefix case needed for deployed-file records; path must
// live under root.
func Rel(root, path string) string {
	trimmedRoot := strings.TrimRight(root, separators)
	if !strings.HasPrefix(path, trimmedRoot) {
		return path
	}
	rest := path[len(trimmedRoot):]
	if rest != "" && !strings.ContainsAny(rest[:1], separators) {
		// Prefix match on a sibling like `C:\mods\skyui2`, not a child.
		return path
	}
	rel := strings.TrimLeft(rest, separators)
	if rel == "" {
		return "."
	}
	return rel
}
