package main

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// ValidationResult carries field-keyed messages; handlers forward Errors
// verbatim with a 400 when IsValid is false.
type ValidationResult struct {
	Errors  map[string]string
	IsValid bool
}

func newValidation() *ValidationResult {
	return &ValidationResult{Errors: map[string]string{}}
}

func (v *ValidationResult) fail(field, msg string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = msg
	}
}

func (v *ValidationResult) finish() *ValidationResult {
	v.IsValid = len(v.Errors) == 0
	return v
}

func isEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateRegisterInput(in RegisterInput) *ValidationResult {
	v := newValidation()
	if isEmpty(in.Name) {
		v.fail("name", "Name field is required")
	} else if !lengthBetween(in.Name, 2, 30) {
		v.fail("name", "Name must be between 2 and 30 characters")
	}
	if isEmpty(in.Email) {
		v.fail("email", "Email field is required")
	} else if !validEmail(in.Email) {
		v.fail("email", "Email is invalid")
	}
	if isEmpty(in.Password) {
		v.fail("password", "Password field is required")
	} else if !lengthBetween(in.Password, 6, 30) {
		v.fail("password", "Password must be between 6 and 30 characters")
	}
	return v.finish()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateLoginInput(in LoginInput) *ValidationResult {
	v := newValidation()
	if isEmpty(in.Email) {
		v.fail("email", "Email field is required")
	} else if !validEmail(in.Email) {
		v.fail("email", "Email is invalid")
	}
	if isEmpty(in.Password) {
		v.fail("password", "Password field is required")
	}
	return v.finish()
}

type PostInput struct {
	Text string `json:"text"`
}

func ValidatePostInput(in PostInput) *ValidationResult {
	v := newValidation()
	if isEmpty(in.Text) {
		v.fail("text", "Text field is required")
	} else if !lengthBetween(in.Text, 10, 300) {
		v.fail("text", "Post must be between 10 and 300 characters")
	}
	return v.finish()
}

type ProfileInput struct {
	Handle         string `json:"handle"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"` // comma separated
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func ValidateProfileInput(in ProfileInput) *ValidationResult {
	v := newValidation()
	if isEmpty(in.Handle) {
		v.fail("handle", "Profile handle is required")
	} else if !lengthBetween(in.Handle, 2, 40) {
		v.fail("handle", "Handle needs to be between 2 and 40 characters")
	}
	if isEmpty(in.Status) {
		v.fail("status", "Status field is required")
	}
	if isEmpty(in.Skills) {
		v.fail("skills", "Skills field is required")
	}
	return v.finish()
}
