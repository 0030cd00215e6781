package importer

import (
	"fmt"
	"strings"
)

// Institution identifies a supported export format.
type Institution int

const (
	// MetaMask is the MetaMask card wallet export.
	MetaMask Institution = iota + 1
	// N26 is the N26 bank account export.
	N26
	// DH is the Deželna Hranilnica account export.
	DH
)

var institutionNames = [...]string{
	MetaMask: "MetaMask",
	N26:      "N26",
	DH:       "DH",
}

// Institutions returns every supported institution in display order.
func Institutions() []Institution {
	return []Institution{MetaMask, N26, DH}
}

// Valid reports whether i is one of the declared institutions.
func (i Institution) Valid() bool {
	return i >= MetaMask && int(i) < len(institutionNames)
}

func (i Institution) String() string {
	if i == 0 {
		return ""
	}
	if !i.Valid() {
		return fmt.Sprintf("Institution(%d)", int(i))
	}
	return institutionNames[i]
}

// Tag is the lower-case identifier used on the command line and in config.
func (i Institution) Tag() string {
	return strings.ToLower(i.String())
}

// ParseInstitution looks up an institution by tag or display name,
// ignoring case.
func ParseInstitution(s string) (Institution, error) {
	name := strings.TrimSpace(s)
	for _, inst := range Institutions() {
		if strings.EqualFold(name, inst.String()) {
			return inst, nil
		}
	}
	return 0, &UnsupportedInstitutionError{Name: s}
}

// Set implements pflag.Value so an Institution can be bound to a flag.
func (i *Institution) Set(s string) error {
	inst, err := ParseInstitution(s)
	if err != nil {
		return err
	}
	*i = inst
	return nil
}

// Type implements pflag.Value.
func (i *Institution) Type() string { return "institution" }
