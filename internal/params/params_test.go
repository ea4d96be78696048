package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantPage   int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 20, wantPage: 1, wantOffset: 0},
		{name: "explicit page", query: "limit=10&page=3", wantLimit: 10, wantPage: 3, wantOffset: 20},
		{name: "limit clamped", query: "limit=500", wantLimit: 50, wantPage: 1, wantOffset: 0},
		{name: "garbage ignored", query: "limit=abc&page=-2", wantLimit: 20, wantPage: 1, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			p := ParsePagination(q)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	q, _ := url.ParseQuery("limit=10&page=2")
	p := ParsePagination(q)
	p.ComputeMeta(35)

	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
}
