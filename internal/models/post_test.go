package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Whitespace and empties dropped", "a, b ,, c", []string{"a", "b", "c"}},
		{"Single tag", "golang", []string{"golang"}},
		{"Empty input", "", []string{}},
		{"Only separators", " , ,", []string{}},
		{"Order preserved", "z, a, m", []string{"z", "a", "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestPostCreationDate(t *testing.T) {
	p := &Post{Date: "Feb 1, 2025"}
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), p.CreationDate())

	// Unparseable dates collapse to the zero time so they sort last.
	assert.True(t, (&Post{Date: "yesterday"}).CreationDate().IsZero())
	assert.True(t, (&Post{}).CreationDate().IsZero())
}
