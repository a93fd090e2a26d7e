package mention

import (
	"time"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// EntityGetter is the store surface StoreLookup reads from.
type EntityGetter interface {
	GetTask(id string) (*store.Task, error)
	GetTodoList(id string) (*store.TodoList, error)
	GetPerson(id string) (*store.Person, error)
}

// StoreLookup resolves code-form mentions against the live store.
type StoreLookup struct {
	Store EntityGetter
}

// Resolve implements Lookup. Date kinds resolve when id is a valid date.
func (l StoreLookup) Resolve(kind Kind, id string) (Ref, bool) {
	switch kind {
	case KindTask:
		t, err := l.Store.GetTask(id)
		if err != nil {
			return Ref{}, false
		}
		return TaskRef(*t), true
	case KindTodoList:
		tl, err := l.Store.GetTodoList(id)
		if err != nil {
			return Ref{}, false
		}
		return TodoListRef(*tl), true
	case KindPerson:
		p, err := l.Store.GetPerson(id)
		if err != nil {
			return Ref{}, false
		}
		return PersonRef(*p), true
	case KindDiary, KindCalendar, KindDate:
		if _, err := time.Parse(store.DateLayout, id); err != nil {
			return Ref{}, false
		}
		return DateRef(kind, id), true
	}
	return Ref{}, false
}
