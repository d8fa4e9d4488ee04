package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariants(t *testing.T) {
	list, err := Variants(testSettings(t))
	require.NoError(t, err)
	require.Len(t, list, 4)

	names := make([]string, len(list))
	for i, v := range list {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"js", "no", "react", "vue"}, names)

	assert.Equal(t, "no", list[0].AliasOf)
	assert.Equal(t, list[1].Merge, list[0].Merge)
	assert.Empty(t, list[1].AliasOf)

	assert.Equal(t, []string{"react-extension-template"}, list[2].ExcludeVCS)
	assert.True(t, list[2].Submodules)
	assert.Equal(t, 5, list[2].Rewrites)
}
