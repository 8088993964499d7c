package assembler

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Version
		wantErr  bool
	}{
		{name: "three parts", input: "0.96.4", expected: NewVersion(0, 96, 4)},
		{name: "two parts", input: "2.18", expected: NewVersion(2, 18, 0)},
		{name: "prefix and suffix", input: "V2.19 - Git 1234", expected: NewVersion(2, 19, 0)},
		{name: "lowercase prefix", input: "v1.0,", expected: NewVersion(1, 0, 0)},
		{name: "trailing dot", input: "0.97.", expected: NewVersion(0, 97, 0)},
		{name: "no digits", input: "release", wantErr: true},
		{name: "too many parts", input: "1.2.3.4", wantErr: true},
		{name: "empty part", input: "1..2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, v.IsValid())
				return
			}
			assert.NoError(t, err)
			assert.True(t, v.IsValid())
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	v096 := NewVersion(0, 96, 4)
	v097 := NewVersion(0, 97, 0)

	assert.Equal(t, -1, v096.Compare(v097))
	assert.Equal(t, 1, v097.Compare(v096))
	assert.Equal(t, 0, v097.Compare(NewVersion(0, 97, 0)))
	assert.True(t, v096.Less(v097))

	assert.True(t, NoVersion.Less(NewVersion(0, 0, 0)))
	assert.Equal(t, 0, NoVersion.Compare(Version{}))
	assert.Equal(t, "unknown", NoVersion.String())
	assert.Equal(t, "0.96.4", v096.String())
}
