// Package passcheck scores password strength with simple length and
// character-class heuristics plus an exact wordlist membership check.
package passcheck

import (
	"bufio"
	"os"
	"strings"
	"unicode"
)

// Strength buckets a password into weak, medium or strong.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	default:
		return "unknown"
	}
}

// Wordlist is a set of known-common passwords.
type Wordlist map[string]struct{}

// LoadWordlist reads one password per trimmed line. A missing file is not
// an error; it yields an empty list and the wordlist check is skipped.
func LoadWordlist(path string) (Wordlist, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Wordlist{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list := Wordlist{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			list[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Check scores a password and explains the verdict.
func Check(password string, wordlist Wordlist) (Strength, string) {
	if _, common := wordlist[password]; common {
		return Weak, "password is too common; avoid passwords from known wordlists"
	}

	length := len(password)
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if length < 6 {
		return Weak, "password is too short"
	}

	if length <= 10 {
		if hasUpper || hasLower || hasDigit || hasSpecial {
			return Medium, "could be stronger with more characters and complexity"
		}
	}

	if length > 10 {
		if hasUpper && hasLower && hasDigit && hasSpecial {
			return Strong, "password meets length and complexity requirements"
		}
		return Medium, "add a mix of upper/lowercase, digits, and special characters"
	}

	return Weak, "needs more characters or complexity"
}
