package models

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyParticipant is returned when a participant name is blank.
var ErrEmptyParticipant = errors.New("participant name cannot be empty")

// Participant identifies a person who may owe or be owed money.
//
// The value is always in canonical form: surrounding whitespace trimmed,
// inner runs of whitespace collapsed to one space, NFC-normalized and
// title-cased. Two names that differ only in case, spacing or Unicode
// composition therefore compare equal and hash to the same map key.
// Build values with ParseParticipant rather than converting raw strings.
type Participant string

// ParseParticipant canonicalizes a display name into a Participant.
func ParseParticipant(name string) (Participant, error) {
	fields := strings.Fields(norm.NFC.String(name))
	if len(fields) == 0 {
		return "", ErrEmptyParticipant
	}
	// Casers are stateful, so each call gets its own.
	canonical := cases.Title(language.Und).String(strings.Join(fields, " "))
	return Participant(canonical), nil
}

// MustParticipant is like ParseParticipant but panics on error.
// Intended for tests and constant tables.
func MustParticipant(name string) Participant {
	p, err := ParseParticipant(name)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseParticipants canonicalizes a list of names, preserving order.
func ParseParticipants(names []string) ([]Participant, error) {
	out := make([]Participant, 0, len(names))
	for _, n := range names {
		p, err := ParseParticipant(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// String returns the display form.
func (p Participant) String() string {
	return string(p)
}

// UnmarshalText canonicalizes names read from JSON or other text encodings.
func (p *Participant) UnmarshalText(text []byte) error {
	parsed, err := ParseParticipant(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText returns the display form.
func (p Participant) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// UniqueParticipants drops repeated entries, keeping first occurrences in order.
func UniqueParticipants(ps []Participant) []Participant {
	seen := make(map[Participant]bool, len(ps))
	out := make([]Participant, 0, len(ps))
	for _, p := range ps {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Strings converts participants back to plain display names.
func Strings(ps []Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
