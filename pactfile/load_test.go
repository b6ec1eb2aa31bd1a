package pactfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdcmatch/matchcore/contract"
	"github.com/cdcmatch/matchcore/matching"
)

const sampleDoc = `{
  "consumer": {"name": "alligator-consumer"},
  "provider": {"name": "alligator-provider"},
  "interactions": [
    {
      "description": "a request for an alligator",
      "request": {
        "method": "GET",
        "path": "/alligator/1",
        "query": "page=1&page=2",
        "headers": {"Accept": "application/json"}
      },
      "response": {
        "status": 200,
        "headers": {"Content-Type": "application/json"},
        "body": {"name": "Mary", "age": 3},
        "matchingRules": {
          "$.body.age": {"match": "type"},
          "$.headers.Content-Type": {"match": "regex", "regex": "application/json.*"},
          "$.query.page": {"min": 1}
        }
      }
    }
  ]
}`

func TestLoadParsesDocument(t *testing.T) {
	doc, err := Load([]byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, "alligator-consumer", doc.Consumer.Name)
	assert.Equal(t, "alligator-provider", doc.Provider.Name)
	require.Len(t, doc.Interactions, 1)
	assert.Equal(t, "a request for an alligator", doc.Interactions[0].Description)
}

func TestRawRequestToContract(t *testing.T) {
	doc, err := Load([]byte(sampleDoc))
	require.NoError(t, err)

	req, err := doc.Interactions[0].Request.ToContract()
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/alligator/1", req.Path)
	assert.Equal(t, []string{"1", "2"}, req.Query["page"])
}

func TestRawResponseToContractAppliesMatchingRules(t *testing.T) {
	doc, err := Load([]byte(sampleDoc))
	require.NoError(t, err)

	resp, err := doc.Interactions[0].Response.ToContract()
	require.NoError(t, err)
	assert.Equal(t, uint16(200), resp.Status)
	assert.True(t, resp.Body.HasContent())

	require.NotNil(t, resp.Rules)
	require.True(t, resp.Rules.BodyMatcherIsDefined([]string{"$", "age"}))
	rules := resp.Rules.BodyResolveBest([]string{"$", "age"})
	require.NotEmpty(t, rules)
	assert.Equal(t, matching.Type, rules[0].Kind)

	require.True(t, resp.Rules.HeaderMatcherIsDefined("Content-Type"))
	hRules := resp.Rules.HeaderResolveBest("Content-Type")
	require.NotEmpty(t, hRules)
	assert.Equal(t, matching.Regex, hRules[0].Kind)

	require.True(t, resp.Rules.QueryMatcherIsDefined("page"))
	qRules := resp.Rules.QueryResolveBest("page")
	require.NotEmpty(t, qRules)
	assert.Equal(t, matching.MinType, qRules[0].Kind)
	assert.Equal(t, 1, qRules[0].Min)
}

func TestSplitRuleKey(t *testing.T) {
	cases := []struct {
		key      string
		category matching.Category
		expr     string
	}{
		{"$.path", matching.CategoryPath, ""},
		{"$.body", matching.CategoryBody, "$"},
		{"$.body.a.b", matching.CategoryBody, "$.a.b"},
		{"$.headers.Content-Type", matching.CategoryHeader, "Content-Type"},
		{"$.query.page", matching.CategoryQuery, "page"},
	}
	for _, c := range cases {
		category, expr, err := splitRuleKey(c.key)
		require.NoError(t, err)
		assert.Equal(t, c.category, category)
		assert.Equal(t, c.expr, expr)
	}

	_, _, err := splitRuleKey("$.nonsense")
	assert.Error(t, err)
}

func TestParseRuleDescriptorInfersTagFromFields(t *testing.T) {
	rule, err := parseRuleDescriptor([]byte(`{"regex": "^[a-z]+$"}`))
	require.NoError(t, err)
	assert.Equal(t, matching.Regex, rule.Kind)
	assert.Equal(t, "^[a-z]+$", rule.Pattern)

	rule, err = parseRuleDescriptor([]byte(`{"min": 2, "max": 5}`))
	require.NoError(t, err)
	assert.Equal(t, matching.MinMaxType, rule.Kind)
	assert.Equal(t, 2, rule.Min)
	assert.Equal(t, 5, rule.Max)

	rule, err = parseRuleDescriptor([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, matching.Equality, rule.Kind)

	_, err = parseRuleDescriptor([]byte(`{"match": "bogus"}`))
	assert.Error(t, err)
}

func TestDecodeBodyStates(t *testing.T) {
	body, err := decodeBody(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, contract.MissingBody(), body)

	body, err = decodeBody([]byte("null"), nil)
	require.NoError(t, err)
	assert.Equal(t, contract.NullBody(), body)

	body, err = decodeBody([]byte(`""`), nil)
	require.NoError(t, err)
	assert.Equal(t, contract.EmptyBody(), body)

	body, err = decodeBody([]byte(`{"a":1}`), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), body.Bytes)
}

func TestDecodeBodyReparsesJSONString(t *testing.T) {
	headers := map[string]string{"Content-Type": "application/json"}
	body, err := decodeBody([]byte(`"{\"a\":1}"`), headers)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body.Bytes))
}
