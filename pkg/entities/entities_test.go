package entities_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/entities"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/report"
)

func TestParse(t *testing.T) {
	e, err := entities.Parse("brand", []byte(`{"volvo": {"nl": "Volvo", "en": "Volvo"}, "audi": {"en,nl": "Audi"}, "odd": "x"}`))
	require.NoError(t, err)

	assert.Equal(t, "brand", e.Name)
	assert.Equal(t, []string{"volvo", "audi", "odd"}, e.Keys())
	assert.Equal(t, []string{"nl", "en"}, e.Entries[0].LanguageKeys)
	assert.Equal(t, []string{"en", "nl"}, e.Entries[1].Tokens(","))
	assert.Empty(t, e.Entries[2].LanguageKeys)
}

func TestReadFileRejectsMalformedJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ``},
		{"yaml syntax", `{a: 1}`},
		{"trailing comma", `{"a": 1,}`},
		{"bare yaml mapping", "jaguar:\n  en: x\n"},
		{"duplicate key", `{"a": {"en": "A"}, "a": {"nl": "A"}}`},
		{"duplicate language", `{"a": {"en": "A", "en": "B"}}`},
		{"not an object", `["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "entities/brand.json", []byte(tt.content), 0o644))

			_, err := entities.ReadFile(fs, "entities/brand.json")
			var parseErr *errors.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "json", parseErr.Format)
		})
	}
}

func TestParseJSON(t *testing.T) {
	e, err := entities.ParseJSON("brand", []byte(`{"volvo": {"nl": "Volvo", "en": "Volvo"}, "audi": {"en,nl": "Audi"}, "odd": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"volvo", "audi", "odd"}, e.Keys())
	assert.Equal(t, []string{"nl", "en"}, e.Entries[0].LanguageKeys)
	assert.Empty(t, e.Entries[2].LanguageKeys)
}

func TestCheckLanguageCoverage(t *testing.T) {
	jaguar, err := entities.Parse("brand", []byte(`{"jaguar": {"en": "Jaguar", "nl": "Jaguar"}}`))
	require.NoError(t, err)

	t.Run("exact coverage is silent", func(t *testing.T) {
		assert.Empty(t, entities.CheckLanguageCoverage(jaguar, []string{"en", "nl"}, ","))
	})

	t.Run("one language short", func(t *testing.T) {
		got := entities.CheckLanguageCoverage(jaguar, []string{"en", "nl", "fr"}, ",")
		assert.Equal(t, []report.Entry{
			report.Warn("Not all languages (en,nl,fr) were defined in brand:jaguar (has only en,nl)"),
		}, got)
	})

	t.Run("one language over", func(t *testing.T) {
		got := entities.CheckLanguageCoverage(jaguar, []string{"en"}, ",")
		assert.Equal(t, []report.Entry{
			report.Warn("A language has been defined more than once for brand:jaguar (en,nl)"),
		}, got)
	})

	t.Run("composite keys are flattened", func(t *testing.T) {
		e, err := entities.Parse("brandModel", []byte(`{"xf": {"en,nl": "XF", "fr": "XF"}, "xj": {"en,nl": "XJ", "nl": "XJ"}}`))
		require.NoError(t, err)

		got := entities.CheckLanguageCoverage(e, []string{"en", "nl", "fr"}, ",")
		require.Len(t, got, 0, "three tokens each: %v", got)

		got = entities.CheckLanguageCoverage(e, []string{"en", "nl"}, ",")
		require.Len(t, got, 2)
		assert.Contains(t, got[0].Message, "brandModel:xf (en,nl,fr)")
		assert.Contains(t, got[1].Message, "brandModel:xj (en,nl,nl)")
	})

	t.Run("custom delimiter", func(t *testing.T) {
		e, err := entities.Parse("brand", []byte(`{"bmw": {"en|nl": "BMW"}}`))
		require.NoError(t, err)
		assert.Empty(t, entities.CheckLanguageCoverage(e, []string{"en", "nl"}, "|"))
		assert.Len(t, entities.CheckLanguageCoverage(e, []string{"en", "nl"}, ","), 1)
	})
}

func TestLoadDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "entities/brand.json", []byte(`{"jaguar": {"en": "Jaguar"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "entities/color.yaml", []byte("red:\n  en: Red\n"), 0o644))

	all, err := entities.LoadDir(context.Background(), fs, "entities", "*.{json,yaml}")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "brand", all[0].Name)
	assert.Equal(t, "color", all[1].Name)
	assert.Equal(t, []string{"red"}, all[1].Keys())

	_, err = entities.LoadDir(context.Background(), fs, "missing", "*.json")
	assert.True(t, errors.As(err, new(*errors.IOError)))
}

func TestReadFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "brand.json", []byte(`{"jaguar": `), 0o644))

	_, err := entities.ReadFile(fs, "brand.json")
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)

	_, err = entities.ReadFile(fs, "brandModel.json")
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
