package pathexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		expr string
		want []Token
	}{
		{"$", []Token{{Kind: Root}}},
		{"$.a.b", []Token{{Kind: Root}, {Kind: Field, Name: "a"}, {Kind: Field, Name: "b"}}},
		{"$['2'].str", []Token{{Kind: Root}, {Kind: Field, Name: "2"}, {Kind: Field, Name: "str"}}},
		{"$.list[0]", []Token{{Kind: Root}, {Kind: Field, Name: "list"}, {Kind: Index, N: 0}}},
		{"$.list[*]", []Token{{Kind: Root}, {Kind: Field, Name: "list"}, {Kind: StarIndex}}},
		{"$.*", []Token{{Kind: Root}, {Kind: Star}}},
		{"$.list[*].*", []Token{{Kind: Root}, {Kind: Field, Name: "list"}, {Kind: StarIndex}, {Kind: Star}}},
		{"$.body.item1.level[2].id", []Token{
			{Kind: Root}, {Kind: Field, Name: "body"}, {Kind: Field, Name: "item1"},
			{Kind: Field, Name: "level"}, {Kind: Index, N: 2}, {Kind: Field, Name: "id"},
		}},
		{"$.foo.@bar", []Token{{Kind: Root}, {Kind: Field, Name: "foo"}, {Kind: Field, Name: "@bar"}}},
	} {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Tokens())
			assert.Equal(t, tt.expr, got.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"a.b",
		"$.",
		"$.list[",
		"$.list[x]",
		"$['unterminated",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			assert.Error(t, err)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("not-a-path") })
}
