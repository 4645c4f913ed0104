package domain_test

import (
	"encoding/json"
	"sync"
	"testing"

	"devconnector-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(e *domain.Experiences) []string {
	var out []string
	for _, item := range e.Items() {
		out = append(out, item.ID)
	}
	return out
}

func TestExperiences_PrependIsNewestFirst(t *testing.T) {
	var list domain.Experiences
	require.NoError(t, list.Prepend(domain.Experience{ID: "e1"}))
	require.NoError(t, list.Prepend(domain.Experience{ID: "e2"}))

	assert.Equal(t, []string{"e2", "e1"}, ids(&list))
	pos, ok := list.IndexOf("e1")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestExperiences_PrependRejectsDuplicateAndEmptyIDs(t *testing.T) {
	list := domain.NewExperiences(domain.Experience{ID: "e1"})

	assert.ErrorIs(t, list.Prepend(domain.Experience{ID: "e1"}), domain.ErrDuplicateExperienceID)
	assert.ErrorIs(t, list.Prepend(domain.Experience{}), domain.ErrDuplicateExperienceID)
	assert.Equal(t, 1, list.Len())
}

func TestExperiences_Remove(t *testing.T) {
	tests := []struct {
		name    string
		remove  string
		removed bool
		want    []string
	}{
		{"first", "a", true, []string{"b", "c", "d"}},
		{"middle", "c", true, []string{"a", "b", "d"}},
		{"last", "d", true, []string{"a", "b", "c"}},
		{"unknown id leaves list unchanged", "zzz", false, []string{"a", "b", "c", "d"}},
		{"empty id", "", false, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := domain.NewExperiences(
				domain.Experience{ID: "a"}, domain.Experience{ID: "b"},
				domain.Experience{ID: "c"}, domain.Experience{ID: "d"},
			)
			assert.Equal(t, tt.removed, list.Remove(tt.remove))
			assert.Equal(t, tt.want, ids(&list))
			for i, id := range tt.want {
				pos, ok := list.IndexOf(id)
				assert.True(t, ok)
				assert.Equal(t, i, pos)
			}
		})
	}
}

func TestExperiences_ItemsIsACopy(t *testing.T) {
	list := domain.NewExperiences(domain.Experience{ID: "a", Title: "Dev"})
	items := list.Items()
	items[0].Title = "changed"

	got, ok := list.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Dev", got.Title)
}

func TestExperiences_JSON(t *testing.T) {
	var empty domain.Experiences
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	var decoded domain.Experiences
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"x","title":"T","company":"C","from":"2020-01-01T00:00:00Z","current":true}]`), &decoded))
	got, ok := decoded.Get("x")
	require.True(t, ok)
	assert.Equal(t, "T", got.Title)
	assert.True(t, got.Current)

	p := domain.Profile{Experience: decoded}
	b, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"experience":[{"id":"x"`)
}

func TestExperiences_ConcurrentReadsDoNotMutate(t *testing.T) {
	var zero domain.Experiences
	shared := domain.NewExperiences(domain.Experience{ID: "a"}, domain.Experience{ID: "b"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, found := zero.IndexOf("a")
			assert.False(t, found)
			_, ok := zero.Get("a")
			assert.False(t, ok)

			pos, found := shared.IndexOf("b")
			assert.True(t, found)
			assert.Equal(t, 1, pos)
		}()
	}
	wg.Wait()

	require.NoError(t, zero.Prepend(domain.Experience{ID: "first"}))
	pos, found := zero.IndexOf("first")
	assert.True(t, found)
	assert.Equal(t, 0, pos)
}
