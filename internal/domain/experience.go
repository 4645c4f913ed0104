package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrDuplicateExperienceID = errors.New("experience id already present")

type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Experiences is the newest-first list of a profile's experience entries,
// with an id -> position index kept alongside the slice.
//
// The zero value is an empty list.
type Experiences struct {
	items []Experience
	index map[string]int
}

func NewExperiences(items ...Experience) Experiences {
	e := Experiences{items: append([]Experience(nil), items...)}
	e.reindex()
	return e
}

func (e *Experiences) Len() int {
	return len(e.items)
}

// Items returns a copy of the entries in order.
func (e *Experiences) Items() []Experience {
	return append([]Experience{}, e.items...)
}

// IndexOf only reads; every mutator rebuilds the index, so a nil index always
// belongs to an empty list.
func (e *Experiences) IndexOf(id string) (int, bool) {
	pos, ok := e.index[id]
	return pos, ok
}

func (e *Experiences) Get(id string) (Experience, bool) {
	pos, ok := e.IndexOf(id)
	if !ok {
		return Experience{}, false
	}
	return e.items[pos], true
}

// Prepend puts exp at the front. The id must be non-empty and not yet used.
func (e *Experiences) Prepend(exp Experience) error {
	if exp.ID == "" {
		return ErrDuplicateExperienceID
	}
	if _, exists := e.IndexOf(exp.ID); exists {
		return ErrDuplicateExperienceID
	}
	e.items = append([]Experience{exp}, e.items...)
	e.reindex()
	return nil
}

// Remove deletes the entry with id and reports whether it existed. On a miss
// the list is left untouched.
func (e *Experiences) Remove(id string) bool {
	pos, ok := e.IndexOf(id)
	if !ok {
		return false
	}
	e.items = append(e.items[:pos:pos], e.items[pos+1:]...)
	e.reindex()
	return true
}

func (e *Experiences) reindex() {
	e.index = make(map[string]int, len(e.items))
	for i, item := range e.items {
		e.index[item.ID] = i
	}
}

func (e Experiences) MarshalJSON() ([]byte, error) {
	if e.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.items)
}

func (e *Experiences) UnmarshalJSON(data []byte) error {
	var items []Experience
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	e.items = items
	e.reindex()
	return nil
}
