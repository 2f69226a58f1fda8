// Package forms holds the search form types and the validation rules they
// share. Field level rules live next to each form; the cross field rule that
// a search needs at least one criterion is common to all of them except the
// sale search.
package forms

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
)

// MsgAtLeastOneCriterion is shown when a search form is submitted with all
// fields empty.
const MsgAtLeastOneCriterion = "enter at least one search criterion"

// Errors maps a field name to its validation messages. The empty field name
// holds form wide messages.
type Errors map[string][]string

// Add appends a message for the field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether any message was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// First returns the first message for the field, or the empty string.
func (e Errors) First(field string) string {
	messages := e[field]
	if len(messages) == 0 {
		return ""
	}

	return messages[0]
}

// WasSubmitted reports whether the list page was reached through its search
// form. The forms carry a hidden search=1 field so an unfiltered listing can
// be told apart from an empty search.
func WasSubmitted(c *fiber.Ctx) bool {
	return c.Query("search") != ""
}

// criterion pairs a search field with its submitted value.
type criterion struct {
	field string
	value string
}

// requireAnyCriterion marks every listed field with the shared message when
// none of them holds a value. Marking each field keeps the message next to
// every input on the page, the way the entity forms present it.
func requireAnyCriterion(e Errors, criteria ...criterion) {
	for _, cr := range criteria {
		if strings.TrimSpace(cr.value) != "" {
			return
		}
	}

	for _, cr := range criteria {
		e.Add(cr.field, MsgAtLeastOneCriterion)
	}
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return len(s) > 0
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}

	return len(s) > 0
}

func modelCharset(s string) bool {
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == ' ', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}

	return true
}
