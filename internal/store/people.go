package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ─── Social book ─────────────────────────────────────────────────────────────

const personColumns = `id, name, personal_info, birthday, birthday_reminder, preferences,
	events, notes, custom_fields, created_at, updated_at`

// NewPerson builds an empty social-book entry. It is not saved.
func NewPerson(name string) *Person {
	now := Now()
	return &Person{
		ID:           uuid.NewString(),
		Name:         name,
		Events:       []string{},
		CustomFields: map[string]string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SavePerson inserts or updates a person and refreshes UpdatedAt.
func (s *Store) SavePerson(p *Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := Now()
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	events, err := encodeJSON(p.Events)
	if err != nil {
		return fmt.Errorf("store: encode events: %w", err)
	}
	custom := "{}"
	if len(p.CustomFields) > 0 {
		if custom, err = encodeJSON(p.CustomFields); err != nil {
			return fmt.Errorf("store: encode custom fields: %w", err)
		}
	}

	_, err = s.execHook(s.db,
		`INSERT INTO people (`+personColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   personal_info = excluded.personal_info,
		   birthday = excluded.birthday,
		   birthday_reminder = excluded.birthday_reminder,
		   preferences = excluded.preferences,
		   events = excluded.events,
		   notes = excluded.notes,
		   custom_fields = excluded.custom_fields,
		   updated_at = excluded.updated_at`,
		p.ID, p.Name, p.PersonalInfo, nullableString(p.Birthday), boolInt(p.BirthdayReminder),
		p.Preferences, events, p.Notes, custom, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: save person: %w", err)
	}
	return nil
}

// GetPerson returns a person by id, or ErrNotFound.
func (s *Store) GetPerson(id string) (*Person, error) {
	people, err := s.queryPeople(`SELECT `+personColumns+` FROM people WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get person: %w", err)
	}
	if len(people) == 0 {
		return nil, ErrNotFound
	}
	return &people[0], nil
}

// People returns the whole social book in insertion order.
func (s *Store) People() ([]Person, error) {
	people, err := s.queryPeople(`SELECT ` + personColumns + ` FROM people ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: list people: %w", err)
	}
	return people, nil
}

// FindPersonByName returns the first person whose name matches,
// case-insensitively, or ErrNotFound.
func (s *Store) FindPersonByName(name string) (*Person, error) {
	people, err := s.People()
	if err != nil {
		return nil, err
	}
	for i := range people {
		if strings.EqualFold(people[i].Name, name) {
			return &people[i], nil
		}
	}
	return nil, ErrNotFound
}

// DeletePerson removes a person from the social book.
func (s *Store) DeletePerson(id string) error {
	res, err := s.execHook(s.db, `DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryPeople(query string, args ...any) ([]Person, error) {
	rows, err := s.queryHook(s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Person
	for rows.Next() {
		var (
			p                 Person
			birthday          sql.NullString
			reminder          int
			rawEvents, custom string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.PersonalInfo, &birthday, &reminder, &p.Preferences,
			&rawEvents, &p.Notes, &custom, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Birthday = birthday.String
		p.BirthdayReminder = reminder != 0
		if p.Events, err = decodeStrings(rawEvents); err != nil {
			return nil, fmt.Errorf("decode events of %s: %w", p.ID, err)
		}
		if p.CustomFields, err = decodeStringMap(custom); err != nil {
			return nil, fmt.Errorf("decode custom fields of %s: %w", p.ID, err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// ─── Reminders ───────────────────────────────────────────────────────────────

// AddReminder stores a reminder for a person's event.
func (s *Store) AddReminder(r *Reminder) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = Now()
	}
	if r.ReminderDays <= 0 {
		r.ReminderDays = 7
	}
	_, err := s.execHook(s.db,
		`INSERT INTO reminders (id, person_name, event, date, reminder_days, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.PersonName, r.Event, r.Date, r.ReminderDays, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: add reminder: %w", err)
	}
	return nil
}

// Reminders returns every reminder in insertion order.
func (s *Store) Reminders() ([]Reminder, error) {
	rows, err := s.queryHook(s.db,
		`SELECT id, person_name, event, date, reminder_days, created_at FROM reminders ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: list reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.PersonName, &r.Event, &r.Date, &r.ReminderDays, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
