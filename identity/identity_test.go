package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiprobe/allure-reporter/types"
)

func TestGenerate_Deterministic(t *testing.T) {
	params := []types.Parameter{
		{Name: "region", Value: "eu-west-1"},
		{Name: "retries", Value: "3"},
	}

	first := Generate("demo", "mod", "get_ok", params, nil)
	second := Generate("demo", "mod", "get_ok", params, nil)

	assert.Equal(t, first, second, "identical inputs must yield identical identity")
	assert.Len(t, first, 64, "identity should be a hex-encoded SHA-256 digest")
}

func TestGenerate_ParameterOrderIndependent(t *testing.T) {
	a := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2"},
	}, nil)
	b := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "b", Value: "2"},
		{Name: "a", Value: "1"},
	}, nil)

	assert.Equal(t, a, b, "parameter order must not affect identity")
}

func TestGenerate_ExcludedParameterDoesNotChangeIdentity(t *testing.T) {
	base := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "seed", Value: "1111"},
	}, []string{"seed"})
	changed := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "seed", Value: "9999"},
	}, []string{"seed"})

	assert.Equal(t, base, changed, "excluded parameter values must not affect identity")
}

func TestGenerate_ExcludedFlagDoesNotChangeIdentity(t *testing.T) {
	base := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "Project", Value: "demo", Excluded: true},
	}, nil)
	changed := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "Project", Value: "other", Excluded: true},
	}, nil)

	assert.Equal(t, base, changed)
}

func TestGenerate_RetainedParameterChangesIdentity(t *testing.T) {
	base := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "region", Value: "eu-west-1"},
	}, nil)
	changed := Generate("demo", "mod", "get_ok", []types.Parameter{
		{Name: "region", Value: "us-east-2"},
	}, nil)

	assert.NotEqual(t, base, changed, "retained parameter values must affect identity")
}

func TestGenerate_NameComponentsChangeIdentity(t *testing.T) {
	base := Generate("demo", "mod", "get_ok", nil, nil)

	require.NotEqual(t, base, Generate("other", "mod", "get_ok", nil, nil))
	require.NotEqual(t, base, Generate("demo", "other", "get_ok", nil, nil))
	require.NotEqual(t, base, Generate("demo", "mod", "get_err", nil, nil))
}
