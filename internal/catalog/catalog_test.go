package catalog

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func TestAverageRating(t *testing.T) {
	cases := []struct {
		values []int
		want   float64
	}{
		{nil, 0.0},
		{[]int{}, 0.0},
		{[]int{3, 4, 5}, 4.0},
		{[]int{5}, 5.0},
		{[]int{1, 2}, 1.5},
		{[]int{1, 1, 2}, 4.0 / 3.0},
	}
	for _, c := range cases {
		got := AverageRating(c.values)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("AverageRating(%v) = %v, want %v", c.values, got, c.want)
		}
	}
}

func sampleMovies() []MovieSummary {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []MovieSummary{
		{ID: 1, Title: "The Departed", Director: "Martin Scorsese", Genre: "Drama", AverageRating: 4.5, ReviewCount: 3, CreatedAt: base},
		{ID: 2, Title: "Airplane!", Director: "Jim Abrahams", Genre: "Comedy", AverageRating: 3.0, ReviewCount: 1, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Heat", Director: "Michael Mann", Genre: "", AverageRating: 0.0, ReviewCount: 0, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestFilterMovies_Search(t *testing.T) {
	movies := sampleMovies()

	got := FilterMovies(movies, "dEpArTeD", "")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("title search failed: %+v", got)
	}

	// matches director, any case, with surrounding whitespace
	got = FilterMovies(movies, "  MANN ", "")
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("director search failed: %+v", got)
	}

	// a term present in neither title nor director excludes everything
	got = FilterMovies(movies, "tarantino", "")
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestFilterMovies_Genre(t *testing.T) {
	movies := sampleMovies()

	got := FilterMovies(movies, "", "drama")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("genre filter failed: %+v", got)
	}

	// "all" (any case) disables the genre filter
	got = FilterMovies(movies, "", "ALL")
	if len(got) != len(movies) {
		t.Fatalf("genre=all should keep all movies, got %d", len(got))
	}

	// filters are conjunctive
	got = FilterMovies(movies, "departed", "comedy")
	if len(got) != 0 {
		t.Fatalf("conjunctive filters should exclude everything, got %+v", got)
	}
}

func TestSortMovies_Title(t *testing.T) {
	movies := SortMovies(sampleMovies(), "TITLE", "asc")
	for i := 1; i < len(movies); i++ {
		if movies[i-1].Title > movies[i].Title {
			t.Fatalf("titles not ascending: %q > %q", movies[i-1].Title, movies[i].Title)
		}
	}

	movies = SortMovies(sampleMovies(), "title", "desc")
	for i := 1; i < len(movies); i++ {
		if movies[i-1].Title < movies[i].Title {
			t.Fatalf("titles not descending: %q < %q", movies[i-1].Title, movies[i].Title)
		}
	}
}

func TestSortMovies_DerivedFields(t *testing.T) {
	movies := SortMovies(sampleMovies(), "averageRating", "desc")
	if movies[0].ID != 1 || movies[len(movies)-1].ID != 3 {
		t.Fatalf("average rating sort failed: %+v", movies)
	}

	movies = SortMovies(sampleMovies(), "reviewcount", "asc")
	if movies[0].ReviewCount != 0 {
		t.Fatalf("review count sort failed: %+v", movies)
	}
}

func TestSortMovies_Defaults(t *testing.T) {
	// unknown key and empty order fall back to createddate descending
	movies := SortMovies(sampleMovies(), "bogus", "")
	if movies[0].ID != 3 || movies[2].ID != 1 {
		t.Fatalf("default sort should be newest first: %+v", movies)
	}

	// missing genre sorts as the empty string, so it comes first ascending
	movies = SortMovies(sampleMovies(), "genre", "asc")
	if movies[0].ID != 3 {
		t.Fatalf("missing genre should sort first ascending: %+v", movies)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i + 1
	}

	page1 := Paginate(items, 1, 5)
	if len(page1) != 5 || page1[0] != 1 {
		t.Fatalf("page 1: %v", page1)
	}
	page3 := Paginate(items, 3, 5)
	if len(page3) != 2 || page3[0] != 11 {
		t.Fatalf("page 3: %v", page3)
	}
	if got := TotalPages(len(items), 5); got != 3 {
		t.Fatalf("TotalPages(12,5) = %d, want 3", got)
	}

	// beyond the last page: empty slice, not an error
	if got := Paginate(items, 4, 5); len(got) != 0 {
		t.Fatalf("page beyond end should be empty, got %v", got)
	}
}

func TestPaginate_Bounds(t *testing.T) {
	items := []string{"a", "b", "c"}
	for page := 1; page <= 5; page++ {
		for size := 1; size <= 4; size++ {
			got := Paginate(items, page, size)
			if len(got) > size {
				t.Fatalf("page %d size %d returned %d items", page, size, len(got))
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
		{5, 0, 0},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%d_%d", c.total, c.size), func(t *testing.T) {
			if got := TotalPages(c.total, c.size); got != c.want {
				t.Fatalf("TotalPages(%d,%d) = %d, want %d", c.total, c.size, got, c.want)
			}
		})
	}
}

func TestSortMovies_Stable(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	movies := []MovieSummary{
		{ID: 1, Title: "Same", CreatedAt: base},
		{ID: 2, Title: "Same", CreatedAt: base},
		{ID: 3, Title: "Same", CreatedAt: base},
	}
	sorted := SortMovies(movies, "title", "asc")
	for i, want := range []uint64{1, 2, 3} {
		if sorted[i].ID != want {
			t.Fatalf("stable sort reordered ties: %+v", sorted)
		}
	}
}
