// Package social implements the social-book update rules.
//
// Free-text fields accumulate: new information is appended on its own line.
// Single-valued fields (name, birthday) are replaced. Events are a list.
// Any key that is not a known field lands in the person's custom fields,
// under the key exactly as given.
package social

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// Field names a known Person attribute.
type Field string

// Known fields.
const (
	FieldName         Field = "name"
	FieldPersonalInfo Field = "personal_info"
	FieldBirthday     Field = "birthday"
	FieldPreferences  Field = "preferences"
	FieldEvents       Field = "events"
	FieldNotes        Field = "notes"
)

// DefaultCategory is used by AddEntry when the caller gives none.
const DefaultCategory = "general"

// ParseField maps a caller-supplied key to a known field. ok is false for
// custom keys.
func ParseField(key string) (f Field, ok bool) {
	switch Field(strings.ToLower(strings.TrimSpace(key))) {
	case FieldName:
		return FieldName, true
	case FieldPersonalInfo:
		return FieldPersonalInfo, true
	case FieldBirthday:
		return FieldBirthday, true
	case FieldPreferences:
		return FieldPreferences, true
	case FieldEvents:
		return FieldEvents, true
	case FieldNotes:
		return FieldNotes, true
	}
	return "", false
}

// Book is the store surface the rules need.
type Book interface {
	FindPersonByName(name string) (*store.Person, error)
	SavePerson(p *store.Person) error
}

// Result reports what an update did.
type Result struct {
	Person  *store.Person
	Created bool
	// Key is the field or custom key that was written.
	Key string
}

// AddEntry records information about a person, creating the person when
// no case-insensitive name match exists. Category "name" is treated as a
// custom key, the name itself is only changed by UpdateField.
func AddEntry(b Book, personName, information, category string) (*Result, error) {
	if strings.TrimSpace(personName) == "" {
		return nil, errors.New("social: add entry: empty person name")
	}
	if category == "" {
		category = DefaultCategory
	}

	p, created, err := findOrCreate(b, personName)
	if err != nil {
		return nil, err
	}

	f, known := ParseField(category)
	switch {
	case known && f == FieldBirthday:
		p.Birthday = information
	case known && f == FieldEvents:
		p.Events = append(p.Events, information)
	case known && f != FieldName:
		appendKnown(p, f, information)
	default:
		appendCustom(p, category, information)
	}

	if err := b.SavePerson(p); err != nil {
		return nil, fmt.Errorf("social: add entry: %w", err)
	}
	return &Result{Person: p, Created: created, Key: category}, nil
}

// UpdateField changes one field of an existing person. Name and birthday
// are replaced, every other field is appended to.
func UpdateField(b Book, personName, field, value string) (*Result, error) {
	p, err := b.FindPersonByName(personName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("social: update field: person %q: %w", personName, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("social: update field: %w", err)
	}

	f, known := ParseField(field)
	switch {
	case known && f == FieldName:
		p.Name = value
	case known && f == FieldBirthday:
		p.Birthday = value
	case known && f == FieldEvents:
		p.Events = append(p.Events, value)
	case known:
		appendKnown(p, f, value)
	default:
		appendCustom(p, field, value)
	}

	if err := b.SavePerson(p); err != nil {
		return nil, fmt.Errorf("social: update field: %w", err)
	}
	return &Result{Person: p, Key: field}, nil
}

func findOrCreate(b Book, name string) (*store.Person, bool, error) {
	p, err := b.FindPersonByName(name)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("social: find person: %w", err)
	}
	return store.NewPerson(name), true, nil
}

func appendKnown(p *store.Person, f Field, text string) {
	switch f {
	case FieldPersonalInfo:
		p.PersonalInfo = appendLine(p.PersonalInfo, text)
	case FieldPreferences:
		p.Preferences = appendLine(p.Preferences, text)
	case FieldNotes:
		p.Notes = appendLine(p.Notes, text)
	}
}

func appendCustom(p *store.Person, key, text string) {
	if p.CustomFields == nil {
		p.CustomFields = map[string]string{}
	}
	if cur, ok := p.CustomFields[key]; ok {
		p.CustomFields[key] = appendLine(cur, text)
		return
	}
	p.CustomFields[key] = text
}

func appendLine(cur, text string) string {
	if cur == "" {
		return text
	}
	return cur + "\n" + text
}
