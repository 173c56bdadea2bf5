package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		in, want PageRequest
	}{
		{PageRequest{}, PageRequest{Limit: DefaultPageLimit}},
		{PageRequest{Limit: -3, Offset: -1}, PageRequest{Limit: DefaultPageLimit}},
		{PageRequest{Limit: 10, Offset: 30}, PageRequest{Limit: 10, Offset: 30}},
		{PageRequest{Limit: 10000}, PageRequest{Limit: MaxPageLimit}},
	}
	for _, tc := range cases {
		got := tc.in
		got.Normalize()
		assert.Equal(t, tc.want, got)
	}
}

func TestPageRequest_Page(t *testing.T) {
	p := PageRequest{Limit: 2, Offset: 4}
	assert.Equal(t, PageResponse{Limit: 2, Offset: 4, Returned: 2, HasMore: true}, p.Page(2))
	assert.False(t, p.Page(1).HasMore)
}
