package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/vcs/vcstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepare(t *testing.T, cacheRoot string, overrides map[string]string, fake *vcstest.Fake) (*Report, error) {
	t.Helper()
	variant := overrides["frontend_type"]
	if variant == "" {
		variant = "react"
	}
	return Prepare(context.Background(), PrepareOptions{
		Settings:  testSettings(t),
		Context:   testContext(variant, overrides),
		Backend:   fake,
		CacheRoot: cacheRoot,
	})
}

func templateCheckout(t *testing.T) (string, string) {
	t.Helper()
	cacheRoot := t.TempDir()
	checkout := filepath.Join(cacheRoot, "cookiecutter-comfy-extension")
	require.NoError(t, os.MkdirAll(checkout, 0755))
	return cacheRoot, checkout
}

func TestPrepareRemoteTemplateUpdatesSubmodules(t *testing.T) {
	cacheRoot, checkout := templateCheckout(t)
	fake := vcstest.NewFake()

	report, err := prepare(t, cacheRoot, nil, fake)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"submodule-init " + checkout,
		"submodule-update " + checkout + " recursive=true",
	}, fake.Calls())

	step, ok := report.Step(StepSubmodules)
	require.True(t, ok)
	assert.Equal(t, StatusOK, step.Status)
	assert.Equal(t, []string{checkout}, step.Paths)
}

func TestPrepareInvalidIdentifierStopsFirst(t *testing.T) {
	cacheRoot, _ := templateCheckout(t)

	for _, slug := range []string{"1abc", "a", "my-slug", ""} {
		t.Run(slug, func(t *testing.T) {
			fake := vcstest.NewFake()
			report, err := prepare(t, cacheRoot, map[string]string{"project_slug": slug}, fake)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrIdentifierInvalid))
			assert.Empty(t, fake.Calls(), "submodules must not run for an invalid identifier")
			require.Len(t, report.Steps, 1)
			assert.Equal(t, StatusFailed, report.Steps[0].Status)
		})
	}
}

func TestPrepareHyphenSuggestsUnderscore(t *testing.T) {
	report, err := prepare(t, t.TempDir(), map[string]string{"project_slug": "my-slug"}, vcstest.NewFake())
	require.Error(t, err)
	assert.Contains(t, report.Steps[0].Detail, "my_slug")
}

func TestPrepareSkipsSubmodules(t *testing.T) {
	cacheRoot, _ := templateCheckout(t)

	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{"local template", map[string]string{"_template": "/home/octo/templates/comfy"}},
		{"relative template", map[string]string{"_template": "."}},
		{"variant without sub-templates", map[string]string{"frontend_type": "no"}},
		{"alias without sub-templates", map[string]string{"frontend_type": "js"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := vcstest.NewFake()
			report, err := prepare(t, cacheRoot, tt.overrides, fake)
			require.NoError(t, err)
			assert.Empty(t, fake.Calls())

			step, ok := report.Step(StepSubmodules)
			require.True(t, ok)
			assert.Equal(t, StatusSkipped, step.Status)
		})
	}
}

func TestPrepareSubmoduleFailureIsWarning(t *testing.T) {
	cacheRoot, _ := templateCheckout(t)
	fake := vcstest.NewFake()
	fake.FailOn["submodule-update"] = errors.New(errors.ErrVCSCommand, "exit status 128")

	report, err := prepare(t, cacheRoot, nil, fake)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrSubmodules))
	assert.True(t, errors.HasErrorCode(err, errors.ErrVCSCommand))
	assert.False(t, report.Failed(), "submodule problems are warnings")
	assert.Len(t, report.Warnings, 1)

	step, ok := report.Step(StepSubmodules)
	require.True(t, ok)
	assert.Equal(t, StatusWarn, step.Status)
}

func TestPrepareMissingBinaryIsDistinct(t *testing.T) {
	cacheRoot, _ := templateCheckout(t)
	fake := vcstest.NewFake()
	fake.FailOn["submodule-init"] = errors.New(errors.ErrVCSNotFound, "git not found")

	_, err := prepare(t, cacheRoot, nil, fake)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrSubmodules))
	assert.True(t, errors.HasErrorCode(err, errors.ErrVCSNotFound))
	assert.False(t, errors.HasErrorCode(err, errors.ErrVCSCommand))
}

func TestPrepareMissingCheckout(t *testing.T) {
	fake := vcstest.NewFake()
	_, err := prepare(t, t.TempDir(), nil, fake)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrSubmodules))
	assert.Empty(t, fake.Calls())
}

func TestPrepareUnknownVariant(t *testing.T) {
	cacheRoot, _ := templateCheckout(t)
	fake := vcstest.NewFake()

	_, err := prepare(t, cacheRoot, map[string]string{"frontend_type": "svelte"}, fake)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVariantUnknown))
	assert.Empty(t, fake.Calls())
}

func TestPrepareDryRun(t *testing.T) {
	cacheRoot, checkout := templateCheckout(t)
	fake := vcstest.NewFake()

	report, err := Prepare(context.Background(), PrepareOptions{
		Settings:  testSettings(t),
		Context:   testContext("react", nil),
		Backend:   fake,
		CacheRoot: cacheRoot,
		DryRun:    true,
	})
	require.NoError(t, err)
	assert.Empty(t, fake.Calls())

	step, ok := report.Step(StepSubmodules)
	require.True(t, ok)
	assert.Equal(t, StatusPlanned, step.Status)
	assert.Equal(t, []string{checkout}, step.Paths)
}
