package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byteedoc/portfolio-api/internal/store"
)

func TestSchemasRegistry(t *testing.T) {
	schemas := Schemas()
	require.Len(t, schemas, 8)

	hero := schemas["hero"]
	assert.Equal(t, "heroSection", hero.Collection)
	assert.Equal(t, "1", hero.SingletonID)
	assert.True(t, hero.Singleton())
	assert.Equal(t, "hero-images", hero.AssetFields["imageUrl"])
	assert.Equal(t, "hero-cv", hero.AssetFields["cvUrl"])

	about := schemas["about"]
	assert.Equal(t, "byteedocabout", about.Collection)
	assert.Equal(t, "byteedocaboutText", about.SingletonID)

	services := schemas["services"]
	assert.False(t, services.Singleton())
	assert.Equal(t, "byteedocservice_icons", services.AssetFields["icon"])

	contacts := schemas["contacts"]
	assert.Equal(t, "byteedoccontacts", contacts.Collection)
	assert.Equal(t, "timestamp", contacts.TimestampField)
	assert.True(t, contacts.WriteOnce)
	assert.Empty(t, contacts.AssetFields)
}

func TestValidateRequiredFields(t *testing.T) {
	hero := Schemas()["hero"]

	err := hero.Validate(store.Fields{"heading": "Hi"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "subheading", ve.Field)

	// whitespace is empty
	err = hero.Validate(store.Fields{"heading": "   ", "subheading": "Dev"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "heading", ve.Field)

	// optional asset fields may be absent
	require.NoError(t, hero.Validate(store.Fields{"heading": "Hi", "subheading": "Dev"}))
}

func TestValidateReportsFirstMissingField(t *testing.T) {
	contacts := Schemas()["contacts"]
	err := contacts.Validate(store.Fields{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestHasField(t *testing.T) {
	projects := Schemas()["projects"]
	assert.True(t, projects.HasField("githubLink"))
	assert.False(t, projects.HasField("icon"))
}
