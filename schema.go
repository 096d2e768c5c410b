package ecoli

import (
	"fmt"

	"github.com/vjardin/ecoli/internal/ecerr"
)

// ConfigSchema describes one accepted key (or, for list-element schemas,
// the single unnamed element) of a dict-shaped Config: its type, a
// human-readable description, and, for List and Dict types, the subschema
// that constrains its contents.
//
// A list schema is a one-element slice whose single entry has an empty
// Key; a dict schema is a slice where every entry has a non-empty Key.
type ConfigSchema struct {
	Key        string
	Desc       string
	Type       ConfigType
	Subschema  []ConfigSchema
}

// SchemaValidate checks that a schema slice is itself well formed: a dict
// schema's entries all have non-empty keys and no duplicates; a list
// schema has exactly one entry with an empty key; scalar types carry no
// subschema; List types carry a subschema of exactly one entry; Dict types
// carry a non-empty subschema. Subschemas are validated recursively.
func SchemaValidate(schema []ConfigSchema) error {
	return validateSchemaAs(schema, ConfigDict)
}

func validateSchemaAs(schema []ConfigSchema, asType ConfigType) error {
	switch asType {
	case ConfigList:
		if len(schema) != 1 {
			return ecerr.New(ecerr.EINVAL, "list schema must have exactly one element")
		}
		if schema[0].Key != "" {
			return ecerr.New(ecerr.EINVAL, "list schema key must be empty")
		}
	case ConfigDict:
		for _, s := range schema {
			if s.Key == "" {
				return ecerr.New(ecerr.EINVAL, "dict schema key must not be empty")
			}
		}
	default:
		return ecerr.New(ecerr.EINVAL, "invalid schema type")
	}

	for i, s := range schema {
		for j := i + 1; j < len(schema); j++ {
			if s.Key == schema[j].Key {
				return ecerr.Errorf(ecerr.EEXIST, "duplicate key <%s> in schema", s.Key)
			}
		}

		switch s.Type {
		case ConfigBool, ConfigI64, ConfigU64, ConfigString, ConfigNodeRef:
			if s.Subschema != nil {
				return ecerr.Errorf(ecerr.EINVAL, "key <%s> should not have a subschema", s.Key)
			}
		case ConfigList:
			if len(s.Subschema) != 1 {
				return ecerr.Errorf(ecerr.EINVAL, "key <%s> must have a subschema of length 1", s.Key)
			}
		case ConfigDict:
			if len(s.Subschema) == 0 {
				return ecerr.Errorf(ecerr.EINVAL, "key <%s> must have a subschema", s.Key)
			}
		default:
			return ecerr.Errorf(ecerr.EINVAL, "invalid type for key <%s>", s.Key)
		}

		if s.Subschema == nil {
			continue
		}
		if err := validateSchemaAs(s.Subschema, s.Type); err != nil {
			return ecerr.Wrap(ecerr.EINVAL, err, fmt.Sprintf("cannot parse subschema for key <%s>", s.Key))
		}
	}

	return nil
}

// schemaLookup finds the schema entry matching key and typ, the same
// dual-key lookup the dict validator uses so that a key reused at two
// different types in two different schemas is never ambiguous.
func schemaLookup(schema []ConfigSchema, key string, typ ConfigType) *ConfigSchema {
	for i := range schema {
		if schema[i].Key == key && schema[i].Type == typ {
			return &schema[i]
		}
	}
	return nil
}

// ConfigValidate checks that dict (which must be a Dict Config) conforms
// to schema: every key present is declared at the matching type, and list
// and dict values recurse into their declared subschemas.
func ConfigValidate(dict *Config, schema []ConfigSchema) error {
	if dict == nil || dict.typ != ConfigDict || schema == nil {
		return ecerr.New(ecerr.EINVAL, "config must be a dict and schema must not be nil")
	}
	return validateDict(dict, schema)
}

func validateDict(dict *Config, schema []ConfigSchema) error {
	for key, value := range dict.dict {
		sch := schemaLookup(schema, key, value.typ)
		if sch == nil {
			return ecerr.Errorf(ecerr.EBADMSG, "key <%s> of type %s is not allowed here", key, value.typ)
		}
		if err := validateValueContents(value, sch); err != nil {
			return err
		}
	}
	return nil
}

func validateValueContents(value *Config, sch *ConfigSchema) error {
	switch value.typ {
	case ConfigList:
		for _, elem := range value.list {
			if elem.typ != sch.Subschema[0].Type {
				return ecerr.Errorf(ecerr.EBADMSG, "list element has wrong type, expected %s", sch.Subschema[0].Type)
			}
			if err := validateValueContents(elem, &sch.Subschema[0]); err != nil {
				return err
			}
		}
	case ConfigDict:
		if err := validateDict(value, sch.Subschema); err != nil {
			return err
		}
	}
	return nil
}
