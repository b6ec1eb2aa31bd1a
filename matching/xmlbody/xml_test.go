package xmlbody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdcmatch/matchcore/matching"
)

func parse(t *testing.T, src string) *Element {
	t.Helper()
	el, err := Parse([]byte(src))
	require.NoError(t, err)
	return el
}

func TestCompareAttributeValueMismatch(t *testing.T) {
	e := parse(t, `<foo something="100" somethingElse="100"/>`)
	a := parse(t, `<foo something="100" somethingElse="101"/>`)

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, matching.NewRules())
	require.Len(t, mismatches, 1)
	assert.Equal(t, "$.foo.@somethingElse", mismatches[0].Path)
}

func TestCompareAttributeValueMismatchSuppressedByTypeRule(t *testing.T) {
	e := parse(t, `<foo something="100" somethingElse="100"/>`)
	a := parse(t, `<foo something="100" somethingElse="101"/>`)

	rules := matching.NewRules()
	rules.AddBody("$.foo.*", matching.Rule{Kind: matching.Type})

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, rules)
	assert.Empty(t, mismatches)
}

func TestCompareElementNameMismatch(t *testing.T) {
	e := parse(t, `<foo/>`)
	a := parse(t, `<bar/>`)

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, matching.NewRules())
	require.Len(t, mismatches, 1)
	assert.Equal(t, "Expected 'foo' to be equal to 'bar'", mismatches[0].Message)
}

func TestCompareElementTypeRuleStillChecksName(t *testing.T) {
	e := parse(t, `<foo/>`)
	a := parse(t, `<bar/>`)

	// The identity check for the root element happens at its own slot
	// path, "$" — not "$.foo" (that targets foo's attributes/children).
	rules := matching.NewRules()
	rules.AddBody("$", matching.Rule{Kind: matching.Type})

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, rules)
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Message, "to be the same type as")
}

func TestCompareElementMinTypeChecksChildCount(t *testing.T) {
	e := parse(t, `<foo><item/></foo>`)
	a := parse(t, `<foo/>`)

	rules := matching.NewRules()
	rules.AddBody("$", matching.Rule{Kind: matching.MinType, Min: 2})

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, rules)
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Message, "at least 2 item(s)")
}

func TestCompareElementMaxTypeChecksChildCount(t *testing.T) {
	e := parse(t, `<foo><item/></foo>`)
	a := parse(t, `<foo><item/><item/><item/></foo>`)

	rules := matching.NewRules()
	rules.AddBody("$", matching.Rule{Kind: matching.MaxType, Max: 1})

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, rules)
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Message, "at most 1 item(s)")
}

func TestCompareMissingAttribute(t *testing.T) {
	e := parse(t, `<foo a="1" b="2"/>`)
	a := parse(t, `<foo a="1"/>`)

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, matching.NewRules())
	require.Len(t, mismatches, 2)
	assert.Equal(t, "Expected a Map with at least 2 elements but received 1 elements", mismatches[0].Message)
	assert.Equal(t, "Expected attribute 'b'='2' but was missing", mismatches[1].Message)
}

func TestCompareChildrenAndText(t *testing.T) {
	e := parse(t, `<root><item>hello</item></root>`)
	a := parse(t, `<root><item>goodbye</item></root>`)

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, matching.NewRules())
	require.Len(t, mismatches, 1)
	assert.Equal(t, "$.root.0.item.#text", mismatches[0].Path)
}

func TestCompareWhitespaceOnlyTextIgnored(t *testing.T) {
	e := parse(t, "<root>\n  <item/>\n</root>")
	a := parse(t, "<root><item/></root>")

	mismatches := Compare([]string{"$"}, e, a, matching.AllowUnexpectedKeys, matching.NewRules())
	assert.Empty(t, mismatches)
}
