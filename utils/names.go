package utils

import (
	"path"
	"strings"
)

// SplitFuncName splits a runtime function name such as
// "example.com/pkg/sub.Type.Method" into the last package path element
// ("sub") and the rest ("Type.Method").
func SplitFuncName(full string) (pkg, name string) {
	dir, base := path.Split(full)

	pkg, name, found := strings.Cut(base, ".")
	if !found {
		return path.Base(dir), base
	}

	return pkg, name
}

// LowerFirst lower-cases the first ASCII letter of name.
func LowerFirst(name string) string {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return name
	}

	return string(name[0]+('a'-'A')) + name[1:]
}
