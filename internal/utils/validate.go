package utils

import (
	"net/mail"
	"regexp"
)

// Student addresses are university-issued: a 'u' followed by a 7-digit
// student number at au.edu.
var studentEmailPattern = regexp.MustCompile(`^u\d{7}@au\.edu$`)

// IsValidEmail reports whether addr is a syntactically valid address
func IsValidEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

// IsValidStudentEmail reports whether addr matches the university student
// address format
func IsValidStudentEmail(addr string) bool {
	return studentEmailPattern.MatchString(addr)
}
