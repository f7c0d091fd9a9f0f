package service

import (
	"bytes"
	"errors"
	"testing"

	"bedrock/component"
	"bedrock/tags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTemplateClasses_PageWithoutComponentRequest(t *testing.T) {
	registry := component.NewRegistry(zap.NewNop())
	classes := tags.NewClasses()
	require.NoError(t, RegisterComponents(registry, classes))
	lib := tags.NewLibrary(classes, zap.NewNop())

	for _, className := range []string{"bedrock.PageModel", "bedrock.Breadcrumb"} {
		t.Run(className, func(t *testing.T) {
			var out bytes.Buffer
			pc := tags.NewPageContext(&out, nil, nil, nil)

			err := lib.SerializeJSON(pc, tags.SerializeJSONTag{ClassName: className})
			var tagErr *tags.TagError
			require.True(t, errors.As(err, &tagErr), "got %v", err)
			assert.ErrorIs(t, err, tags.ErrNoComponentRequest)
			assert.Zero(t, out.Len())
		})
	}
}

func TestTemplateClasses_NilRequestIsInstantiationError(t *testing.T) {
	registry := component.NewRegistry(zap.NewNop())
	classes := tags.NewClasses()
	require.NoError(t, RegisterComponents(registry, classes))

	for _, className := range []string{"bedrock.PageModel", "bedrock.Breadcrumb"} {
		_, err := classes.New(className, nil)
		var instErr *component.InstantiationError
		require.True(t, errors.As(err, &instErr), "%s: got %v", className, err)
		assert.ErrorIs(t, err, component.ErrNoRequest)
	}
}
