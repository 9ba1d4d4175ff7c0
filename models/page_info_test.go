package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name               string
		page, size, total  int
		wantPages          int
		wantStart, wantEnd int
		wantNext           bool
	}{
		{name: "empty", page: 1, size: 10, total: 0, wantPages: 0, wantStart: 0, wantEnd: 0},
		{name: "exact fit", page: 1, size: 5, total: 5, wantPages: 1, wantStart: 0, wantEnd: 5},
		{name: "partial last page", page: 3, size: 4, total: 10, wantPages: 3, wantStart: 8, wantEnd: 10},
		{name: "middle page", page: 2, size: 4, total: 10, wantPages: 3, wantStart: 4, wantEnd: 8, wantNext: true},
		{name: "past the end", page: 5, size: 4, total: 10, wantPages: 3, wantStart: 10, wantEnd: 10},
		{name: "far past the end", page: 1000, size: 4, total: 10, wantPages: 3, wantStart: 10, wantEnd: 10},
		{name: "huge page", page: math.MaxInt / 2, size: 4, total: 10, wantPages: 3, wantStart: 10, wantEnd: 10},
		{name: "max page", page: math.MaxInt, size: math.MaxInt, total: 10, wantPages: 1, wantStart: 10, wantEnd: 10},
		{name: "max page size", page: 1, size: math.MaxInt, total: 10, wantPages: 1, wantStart: 0, wantEnd: 10},
		{name: "max page size empty", page: 1, size: math.MaxInt, total: 0, wantPages: 0, wantStart: 0, wantEnd: 0},
		{name: "second page of max size", page: 2, size: math.MaxInt, total: 10, wantPages: 1, wantStart: 10, wantEnd: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageInfo(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.TotalCount)
			start, end := p.Bounds()
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantNext, p.HasNext())
		})
	}
}
