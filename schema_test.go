package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SchemaValidate_dictSchema(t *testing.T) {
	schema := []ConfigSchema{
		{Key: "name", Type: ConfigString},
		{Key: "count", Type: ConfigI64},
	}
	assert.NoError(t, SchemaValidate(schema))
}

func Test_SchemaValidate_duplicateKey(t *testing.T) {
	schema := []ConfigSchema{
		{Key: "name", Type: ConfigString},
		{Key: "name", Type: ConfigI64},
	}
	assert.Error(t, SchemaValidate(schema))
}

func Test_SchemaValidate_emptyKeyInDict(t *testing.T) {
	schema := []ConfigSchema{{Key: "", Type: ConfigString}}
	assert.Error(t, SchemaValidate(schema))
}

func Test_SchemaValidate_listNeedsOneEmptyKeyedSubschema(t *testing.T) {
	schema := []ConfigSchema{
		{
			Key:  "items",
			Type: ConfigList,
			Subschema: []ConfigSchema{
				{Key: "", Type: ConfigString},
			},
		},
	}
	assert.NoError(t, SchemaValidate(schema))

	badSchema := []ConfigSchema{
		{
			Key:       "items",
			Type:      ConfigList,
			Subschema: []ConfigSchema{},
		},
	}
	assert.Error(t, SchemaValidate(badSchema))
}

func Test_SchemaValidate_scalarWithSubschemaRejected(t *testing.T) {
	schema := []ConfigSchema{
		{Key: "x", Type: ConfigString, Subschema: []ConfigSchema{{Key: "", Type: ConfigBool}}},
	}
	assert.Error(t, SchemaValidate(schema))
}

func Test_ConfigValidate_acceptsDeclaredKeys(t *testing.T) {
	schema := []ConfigSchema{
		{Key: "name", Type: ConfigString},
		{Key: "tags", Type: ConfigList, Subschema: []ConfigSchema{{Key: "", Type: ConfigString}}},
	}

	cfg := ConfigDictVal()
	cfg.DictSet("name", ConfigStringVal("x"))
	cfg.DictSet("tags", ConfigListVal(ConfigStringVal("a"), ConfigStringVal("b")))

	assert.NoError(t, ConfigValidate(cfg, schema))
}

func Test_ConfigValidate_rejectsUndeclaredKey(t *testing.T) {
	schema := []ConfigSchema{{Key: "name", Type: ConfigString}}

	cfg := ConfigDictVal()
	cfg.DictSet("bogus", ConfigI64Val(1))

	assert.Error(t, ConfigValidate(cfg, schema))
}

func Test_ConfigValidate_rejectsListElementOfWrongType(t *testing.T) {
	schema := []ConfigSchema{
		{Key: "tags", Type: ConfigList, Subschema: []ConfigSchema{{Key: "", Type: ConfigString}}},
	}

	cfg := ConfigDictVal()
	cfg.DictSet("tags", ConfigListVal(ConfigI64Val(1)))

	assert.Error(t, ConfigValidate(cfg, schema))
}

func Test_ConfigValidate_requiresDictConfig(t *testing.T) {
	schema := []ConfigSchema{{Key: "name", Type: ConfigString}}
	assert.Error(t, ConfigValidate(ConfigStringVal("not a dict"), schema))
}
