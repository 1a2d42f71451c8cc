package internal

import (
	"regexp"
	"strings"

	"github.com/batchatco/go-ncslab/netcdf/api"
)

// A valid name must start with a letter, digit or underscore.
// It may contain any character after that except control and slash.
var re = regexp.MustCompile(`^[\pL\pN_][^\pC/]*$`)

// It may not end with a whitespace character, or be a reserved word.
var antiRe = regexp.MustCompile(`(\pZ|^(` + reservedWords() + `))$`)

// reservedWords are the type names, plus the user-defined type keywords.
func reservedWords() string {
	words := []string{"char", "enum", "opaque", "compound"}
	for k := api.Byte; k < api.NumKinds; k++ {
		words = append(words, regexp.QuoteMeta(k.String()))
	}
	return strings.Join(words, "|")
}

// IsValidNetCDFName returns true if name is a valid NetCDF name.
func IsValidNetCDFName(name string) bool {
	return re.MatchString(name) && !antiRe.MatchString(name)
}
