package alias

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/polybuild/pkg/feature"
)

func feat(name string, aliases ...string) *feature.Feature {
	return &feature.Feature{Name: name, Config: feature.Config{Aliases: aliases}}
}

func TestBuild(t *testing.T) {
	idx := Build([]*feature.Feature{
		feat("foo", "bar"),
		feat("baz"),
	})

	assert.Equal(t, Index{
		"all": {"foo", "baz"},
		"bar": {"foo"},
	}, idx)
}

func TestBuildKeepsDuplicates(t *testing.T) {
	idx := Build([]*feature.Feature{
		feat("foo", "es6", "es6", "all"),
	})

	assert.Equal(t, []string{"foo", "foo"}, idx.Features("es6"))
	assert.Equal(t, []string{"foo", "foo"}, idx.Features(All))
}

func TestBuildEmpty(t *testing.T) {
	idx := Build(nil)

	data, err := json.Marshal(idx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"all": []}`, string(data))
}

func TestNames(t *testing.T) {
	idx := Build([]*feature.Feature{feat("a", "z", "m")})
	assert.Equal(t, []string{"all", "m", "z"}, idx.Names())
}

func TestMarshalJSON(t *testing.T) {
	idx := Build([]*feature.Feature{feat("foo", "bar"), feat("baz")})

	data, err := json.Marshal(idx)
	require.NoError(t, err)
	assert.Equal(t, `{"all":["foo","baz"],"bar":["foo"]}`, string(data))
}
