package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{725, "12:05"},
		{-3, "0:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.seconds), "seconds=%d", tc.seconds)
	}
}

func TestGeneratedMeetingTitle(t *testing.T) {
	now := time.Date(2026, 1, 16, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Meeting Notes - Jan 16, 2026", GeneratedMeetingTitle(now))
}
