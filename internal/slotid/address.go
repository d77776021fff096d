package slotid

import (
	"fmt"
	"regexp"
	"strings"
)

// partRegex matches a single reference part: a module, slot, app or endpoint name.
var partRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Address is a parsed `owner.name` reference.
type Address struct {
	// Owner is the module (inside an app) or the app (at system level).
	Owner string
	// Name is the slot or endpoint name.
	Name string
}

// New builds an Address from its parts without validation.
func New(owner, name string) Address {
	return Address{Owner: owner, Name: name}
}

// Parse creates an Address from its canonical `owner.name` form.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("reference cannot be empty")
	}

	owner, name, found := strings.Cut(raw, ".")
	if !found {
		return Address{}, fmt.Errorf("reference %q must have the form owner.name", raw)
	}
	if !isValidPart(owner) {
		return Address{}, fmt.Errorf("invalid owner %q in reference %q", owner, raw)
	}
	if !isValidPart(name) {
		return Address{}, fmt.Errorf("invalid name %q in reference %q", name, raw)
	}

	return Address{Owner: owner, Name: name}, nil
}

// MustParse is like Parse but panics on error. Intended for literals in tests
// and synthesized references that are valid by construction.
func MustParse(raw string) Address {
	addr, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// ValidName reports whether s can be used as either part of a reference.
func ValidName(s string) bool {
	return isValidPart(s)
}

// isValidPart rejects empty parts and the path-like names that would
// produce confusing queue or adapter names.
func isValidPart(part string) bool {
	if part == "" || part == "-" {
		return false
	}
	return partRegex.MatchString(part)
}

// String serializes the Address into its canonical `owner.name` form.
func (a Address) String() string {
	return a.Owner + "." + a.Name
}

// Flat joins the parts with an underscore, for use inside generated
// identifiers such as queue and adapter module names.
func (a Address) Flat() string {
	return a.Owner + "_" + a.Name
}

// IsZero reports whether the Address is unset.
func (a Address) IsZero() bool {
	return a.Owner == "" && a.Name == ""
}
