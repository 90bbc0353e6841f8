package collections_test

import (
	"strings"
	"testing"

	"github.com/alkime/writeablog/pkg/collections"

	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("basic types", func(t *testing.T) {
		ints := []int{1, 2, 3, 4}
		squared := collections.Apply(ints, func(i int) int {
			return i * i
		})

		require.Equal(t, []int{1, 4, 9, 16}, squared)

		trimmed := collections.Apply([]string{" a ", "bb ", "  ccc"}, strings.TrimSpace)
		require.Equal(t, []string{"a", "bb", "ccc"}, trimmed)
	})

	t.Run("structs", func(t *testing.T) {
		type Person struct {
			Name string
			Age  int
		}

		people := []Person{
			{Name: "Alice", Age: 30},
			{Name: "Bob", Age: 25},
			{Name: "Charlie", Age: 35},
		}

		names := collections.Apply(people, func(p Person) string {
			return p.Name
		})

		require.Equal(t, []string{"Alice", "Bob", "Charlie"}, names)
	})
}

func TestFilter(t *testing.T) {
	words := []string{"seo", "", "go", " ", "blog"}
	kept := collections.Filter(words, func(s string) bool {
		return strings.TrimSpace(s) != ""
	})

	require.Equal(t, []string{"seo", "go", "blog"}, kept)
	require.Empty(t, collections.Filter([]int{}, func(int) bool { return true }))
}

func TestUnique(t *testing.T) {
	require.Equal(t,
		[]string{"casual", "formal", "friendly"},
		collections.Unique([]string{"casual", "formal", "casual", "friendly", "formal"}),
	)
	require.Empty(t, collections.Unique[int](nil))
}

func TestTake(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	require.Equal(t, []int{1, 2, 3}, collections.Take(items, 3))
	require.Equal(t, items, collections.Take(items, 10))
	require.Empty(t, collections.Take(items, -1))
}
