package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salarypulse/internal/errors"
)

func TestDefaultDefinition(t *testing.T) {
	def := DefaultDefinition()

	require.NoError(t, def.Validate())
	assert.Len(t, def.Sections, 4)
	assert.Equal(t, 6, def.Charts())

	multi := def.Sections[0].Blocks[2]
	require.NotNil(t, multi.Pattern)
	assert.Equal(t, "", *multi.Pattern)
	assert.False(t, multi.KeepOverall)
	assert.Equal(t, "year", def.Sections[0].Blocks[1].XColumn())
}

func TestLoadDefinitionRoundTrip(t *testing.T) {
	data, err := DefaultDefinition().Encode()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDefinition(), def)
}

func TestParseDefinition(t *testing.T) {
	src := `
title: Salaries
sections:
  - header: Nominal
    blocks:
      - kind: markdown
        text: Rising.
      - kind: multi
        pattern: ""
        caption: [Nominal, Year, Salary]
      - kind: multi
        limit: 3
      - kind: single
        y: overall
`
	def, err := ParseDefinition([]byte(src))
	require.NoError(t, err)

	blocks := def.Sections[0].Blocks
	require.Len(t, blocks, 4)
	require.NotNil(t, blocks[1].Pattern, "empty pattern is the nominal selection")
	assert.Equal(t, "", *blocks[1].Pattern)
	assert.Nil(t, blocks[2].Pattern, "absent pattern is the full table")
	assert.Equal(t, []any{"Nominal", "Year", "Salary"}, blocks[1].Caption)
}

func TestParseDefinitionInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no sections", "title: x\nsections: []\n", apierrors.ErrConfig},
		{"unknown kind", "title: x\nsections:\n  - header: h\n    blocks:\n      - kind: table\n", apierrors.ErrConfig},
		{"single without y", "title: x\nsections:\n  - header: h\n    blocks:\n      - kind: single\n", apierrors.ErrConfig},
		{"unknown field", "title: x\ncolour: red\nsections:\n  - header: h\n", apierrors.ErrConfig},
		{"caption arity", "title: x\nsections:\n  - header: h\n    blocks:\n      - kind: single\n        y: overall\n        caption: [a, b]\n", apierrors.ErrInvalidCaption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadDefinitionMissingFile(t *testing.T) {
	_, err := LoadDefinition(filepath.Join(t.TempDir(), "absent.yaml"))
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
}
