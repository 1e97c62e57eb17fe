package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLastName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain last name", "Smith", "Smith"},
		{"Trailing pronouns", "Smith (she/her)", "Smith"},
		{"Trailing qualifier with spaces", "Garcia-Lopez  (on leave)", "Garcia-Lopez"},
		{"Surrounding whitespace", "  Smith  ", "Smith"},
		{"Qualifier only", "(she/her)", ""},
		{"Empty", "", ""},
		{"Interior parenthetical kept", "Smith (interim) Jones", "Smith (interim) Jones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLastName(tt.input))
		})
	}
}

func TestFindInText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		lastName string
		expected string
		found    bool
	}{
		{
			name:     "Honorific gives way to real first name",
			text:     "Dr. Jane Smith",
			lastName: "Smith (she/her)",
			expected: "Jane",
			found:    true,
		},
		{
			name:     "Honorific alone yields nothing",
			text:     "Professor Smith discusses the syllabus",
			lastName: "Smith",
			found:    false,
		},
		{
			name:     "Lowercase fails the strict pass without a hint",
			text:     "this is jane smith's course",
			lastName: "Smith",
			found:    false,
		},
		{
			name:     "Lowercase passes the relaxed pass with a hint",
			text:     "feedback: this is jane smith's course",
			lastName: "Smith",
			expected: "Jane",
			found:    true,
		},
		{
			name:     "Heading with role keyword",
			text:     "Course Feedback for ECON 101 — Instructor: Maria Garcia-Lopez",
			lastName: "Garcia-Lopez",
			expected: "Maria",
			found:    true,
		},
		{
			name:     "Abbreviated middle absorbed",
			text:     "Taught by Jane Q. Smith this spring",
			lastName: "Smith",
			expected: "Jane",
			found:    true,
		},
		{
			name:     "Several capitalized middles absorbed",
			text:     "Welcome from Maria Elena De Santos Garcia",
			lastName: "Garcia",
			expected: "Maria",
			found:    true,
		},
		{
			name:     "Last name inside a longer word is not a match",
			text:     "Ann Smithson presents",
			lastName: "Smith",
			found:    false,
		},
		{
			name:     "Last name matched case-insensitively",
			text:     "Course taught by Jane SMITH",
			lastName: "smith",
			expected: "Jane",
			found:    true,
		},
		{
			name:     "Apostrophe name preserved",
			text:     "Instructor: Siobhan O'Brien-Kelly",
			lastName: "O'Brien-Kelly",
			expected: "Siobhan",
			found:    true,
		},
		{
			name:     "Last name absent short-circuits",
			text:     "An unrelated page about courses",
			lastName: "Smith",
			found:    false,
		},
		{
			name:     "Empty last name after normalization",
			text:     "Jane Smith",
			lastName: "(she/her)",
			found:    false,
		},
		{
			name:     "Empty text",
			text:     "",
			lastName: "Smith",
			found:    false,
		},
		{
			name:     "Last name with no preceding token",
			text:     "Smith",
			lastName: "Smith",
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, ok := FindInText(tt.text, tt.lastName)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, first)
		})
	}
}

func TestFindInText_RelaxedRequiresHintInSameChunk(t *testing.T) {
	// The hint must live in the chunk itself; a hint elsewhere on the page
	// does not license the relaxed pass for this chunk.
	_, ok := FindInText("this is jane smith's course", "Smith")
	require.False(t, ok)

	first, ok := FindInText("lecturer notes: this is jane smith's course", "Smith")
	require.True(t, ok)
	assert.Equal(t, "Jane", first)
}

func TestPattern_Extract(t *testing.T) {
	pattern := NewPattern("Smith")
	require.NotNil(t, pattern)

	t.Run("Strict pass skips lowercase candidates", func(t *testing.T) {
		_, ok := pattern.Extract("maybe jane smith", true)
		assert.False(t, ok)
	})

	t.Run("Relaxed pass accepts lowercase candidates", func(t *testing.T) {
		first, ok := pattern.Extract("maybe jane smith", false)
		require.True(t, ok)
		assert.Equal(t, "Jane", first)
	})

	t.Run("No word boundary before the first token", func(t *testing.T) {
		_, ok := pattern.Extract("x9Jane Smith", true)
		assert.False(t, ok)
	})

	t.Run("First valid candidate wins", func(t *testing.T) {
		first, ok := pattern.Extract("Jane Smith and Bob Smith", true)
		require.True(t, ok)
		assert.Equal(t, "Jane", first)
	})

	t.Run("Nil pattern matches nothing", func(t *testing.T) {
		var nilPattern *Pattern
		_, ok := nilPattern.Extract("Jane Smith", false)
		assert.False(t, ok)
	})
}

func TestNewPattern_EmptyLastName(t *testing.T) {
	assert.Nil(t, NewPattern(""))
	assert.Nil(t, NewPattern("   "))
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"Plain token", "Jane", "Jane", true},
		{"Lowercase first letter fixed", "jane", "Jane", true},
		{"Interior capitalization preserved", "mcKay", "McKay", true},
		{"Apostrophe preserved", "o'Brien", "O'Brien", true},
		{"Periods removed", "J.", "J", true},
		{"Single letter uppercased", "j", "J", true},
		{"Digit rejected", "Jane2", "", false},
		{"Underscore rejected", "jane_doe", "", false},
		{"Whitespace trimmed", "  Jane  ", "Jane", true},
		{"Only periods", "..", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, ok := Clean(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, cleaned)
		})
	}
}

func TestHonorificBlocklist(t *testing.T) {
	pattern := NewPattern("Smith")
	require.NotNil(t, pattern)

	for _, honorific := range []string{"Professor", "Prof", "Doctor", "Dr", "Mr", "Mrs", "Ms", "Mx", "Coach", "Dean", "Chair", "Director", "Instructor"} {
		t.Run(honorific, func(t *testing.T) {
			_, ok := pattern.Extract(honorific+" Smith", true)
			assert.False(t, ok)
		})
	}
}
