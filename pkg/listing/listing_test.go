package listing

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fee struct {
	Treatment  string
	Department string
	HospitalID string
}

var feeFields = Fields[fee]{
	Search: []func(fee) string{
		func(f fee) string { return f.Treatment },
		func(f fee) string { return f.Department },
	},
	Filters: map[string]func(fee) []string{
		"hospital_id": func(f fee) []string { return []string{f.HospitalID} },
		"department":  func(f fee) []string { return []string{f.Department} },
	},
	Sorts: map[string]func(a, b fee) int{
		"treatment": func(a, b fee) int { return strings.Compare(a.Treatment, b.Treatment) },
	},
	DefaultSort: "treatment",
}

func sampleFees() []fee {
	return []fee{
		{Treatment: "Rhinoplasty", Department: "Plastic Surgery", HospitalID: "H1"},
		{Treatment: "Dental Implant", Department: "Dental Care", HospitalID: "H2"},
		{Treatment: "Teeth Whitening", Department: "Dental Care", HospitalID: "H1"},
		{Treatment: "LASIK", Department: "Ophthalmology", HospitalID: "H3"},
	}
}

func TestApply_HospitalFilterWithEmptySearch(t *testing.T) {
	fees := []fee{
		{Treatment: "Rhinoplasty", HospitalID: "H1"},
		{Treatment: "Dental Implant", HospitalID: "H2"},
	}

	got := Apply(fees, Query{Filters: map[string]string{"hospital_id": "H1"}}, feeFields)

	require.Len(t, got, 1)
	assert.Equal(t, fees[0], got[0])
}

func TestApply_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(sampleFees(), Query{Search: "dent"}, feeFields)

	require.Len(t, got, 2)
	for _, f := range got {
		assert.Equal(t, "Dental Care", f.Department)
	}

	upper := Apply(sampleFees(), Query{Search: "DENT"}, feeFields)
	assert.Equal(t, got, upper)
}

func TestApply_IsIdempotent(t *testing.T) {
	queries := []Query{
		{},
		{Search: "dent"},
		{Search: "a", Filters: map[string]string{"hospital_id": "H1"}},
		{Sort: "treatment", Order: Desc},
	}

	for _, q := range queries {
		once := Apply(sampleFees(), q, feeFields)
		twice := Apply(once, q, feeFields)
		assert.Equal(t, once, twice, "query %+v", q)
	}
}

func TestApply_DropdownNarrowsTextSearch(t *testing.T) {
	textOnly := Apply(sampleFees(), Query{Search: "e"}, feeFields)
	combined := Apply(sampleFees(), Query{Search: "e", Filters: map[string]string{"department": "Dental Care"}}, feeFields)

	assert.LessOrEqual(t, len(combined), len(textOnly))
	for _, f := range combined {
		assert.Contains(t, textOnly, f)
	}
}

func TestApply_UnknownFilterIsIgnored(t *testing.T) {
	got := Apply(sampleFees(), Query{Filters: map[string]string{"color": "red"}}, feeFields)
	assert.Len(t, got, len(sampleFees()))
}

func TestApply_SortsByDefaultAndDescending(t *testing.T) {
	asc := Apply(sampleFees(), Query{}, feeFields)
	assert.Equal(t, "Dental Implant", asc[0].Treatment)

	desc := Apply(sampleFees(), Query{Sort: "treatment", Order: Desc}, feeFields)
	assert.Equal(t, "Teeth Whitening", desc[0].Treatment)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := sampleFees()
	_ = Apply(in, Query{Order: Desc}, feeFields)
	assert.Equal(t, sampleFees(), in)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, total := Paginate(items, Query{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.EqualValues(t, 5, total)

	page, _ = Paginate(items, Query{Page: 3, Limit: 2})
	assert.Equal(t, []int{5}, page)

	page, total = Paginate(items, Query{Page: 9, Limit: 2})
	assert.Empty(t, page)
	assert.EqualValues(t, 5, total)

	huge := ParseQuery(url.Values{"page": {"922337203685477582"}, "limit": {"100"}})
	page, total = Paginate(items, huge)
	assert.Empty(t, page)
	assert.EqualValues(t, 5, total)
}

func TestQuery_PageIsClampedSoOffsetCannotOverflow(t *testing.T) {
	q := ParseQuery(url.Values{"page": {"922337203685477582"}, "limit": {"100"}})

	assert.Equal(t, MaxPage, q.Page)
	assert.Positive(t, q.Offset())
	assert.Equal(t, (MaxPage-1)*MaxLimit, q.Offset())
}

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"q":           {"  Dental "},
		"hospital_id": {"H1"},
		"department":  {""},
		"color":       {"red"},
		"sort":        {"treatment"},
		"order":       {"DESC"},
		"page":        {"0"},
		"limit":       {"1000"},
	}

	q := ParseQuery(values, feeFields.FilterKeys()...)

	assert.Equal(t, "Dental", q.Search)
	assert.Equal(t, map[string]string{"hospital_id": "H1"}, q.Filters)
	assert.Equal(t, "treatment", q.Sort)
	assert.Equal(t, Desc, q.Order)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
}

func TestQuery_WithFilterCopies(t *testing.T) {
	q := Query{Filters: map[string]string{"status": "pending"}}
	scoped := q.WithFilter("interpreter_id", "abc")

	assert.Equal(t, "abc", scoped.Filters["interpreter_id"])
	_, leaked := q.Filters["interpreter_id"]
	assert.False(t, leaked)
}

func TestQuery_TotalPages(t *testing.T) {
	assert.Equal(t, 0, Query{Limit: 10}.TotalPages(0))
	assert.Equal(t, 1, Query{Limit: 10}.TotalPages(10))
	assert.Equal(t, 2, Query{Limit: 10}.TotalPages(11))
}
