// Package schema reflects Go types into JSON Schemas suitable for LLM
// function declarations and structured output formats.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Faker may be implemented by request types to provide a populated
// example instance for format instructions.
type Faker interface {
	Fake() any
}

// Schema is a reflected function schema for a Go type.
type Schema struct {
	// Parameters is the schema of the type itself.
	Parameters *jsonschema.Schema
	raw        []byte
}

var (
	cacheMu sync.Mutex
	cache   = map[reflect.Type]*Schema{}
)

// New reflects the JSON schema of t. Results are cached per type.
func New(t reflect.Type) (*Schema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf("schema: expected struct type, got %s", t.Kind())
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if sc, ok := cache[t]; ok {
		return sc, nil
	}

	reflector := jsonschema.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: false,
		Namer:                      stableNamer,
	}

	parameters := reflector.ReflectFromType(t)
	parameters.Version = ""
	resolveRefs(parameters)

	raw, err := json.Marshal(parameters)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sc := &Schema{
		Parameters: parameters,
		raw:        raw,
	}
	cache[t] = sc
	return sc, nil
}

// FromAny reflects the JSON schema of the value's type.
func FromAny(v any) (*Schema, error) {
	return New(reflect.TypeOf(v))
}

// MustFromAny is FromAny that panics on error.
func MustFromAny(v any) *Schema {
	sc, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return sc
}

// String returns the compact JSON encoding of the schema.
func (s *Schema) String() string {
	return string(s.raw)
}

// stableNamer gives generic type instantiations a deterministic name so
// that schema output does not change between runs.
func stableNamer(t reflect.Type) string {
	name := t.Name()
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		sum := xxhash.Sum64String(t.PkgPath() + "/" + name)
		return fmt.Sprintf("%s_%x", name[:idx], sum)
	}
	return name
}

// resolveRefs flattens $defs references in-place, as most providers do
// not follow them in function declarations.
func resolveRefs(sc *jsonschema.Schema) {
	defs := map[string]*jsonschema.Schema{}
	for name, def := range sc.Definitions {
		defs["#/$defs/"+name] = def
	}
	if len(defs) == 0 {
		return
	}
	resolveSchema(sc, defs, map[*jsonschema.Schema]bool{})
	sc.Definitions = nil
}

func resolveSchema(sc *jsonschema.Schema, defs map[string]*jsonschema.Schema, seen map[*jsonschema.Schema]bool) {
	if sc == nil || seen[sc] {
		return
	}
	seen[sc] = true

	if sc.Ref != "" {
		if def, ok := defs[sc.Ref]; ok {
			resolveSchema(def, defs, seen)
			*sc = *def
		}
		return
	}

	if sc.Properties != nil {
		for pair := sc.Properties.Oldest(); pair != nil; pair = pair.Next() {
			resolveSchema(pair.Value, defs, seen)
		}
	}
	resolveSchema(sc.Items, defs, seen)
	if ap, ok := any(sc.AdditionalProperties).(*jsonschema.Schema); ok {
		resolveSchema(ap, defs, seen)
	}
	for _, sub := range sc.AnyOf {
		resolveSchema(sub, defs, seen)
	}
	for _, sub := range sc.OneOf {
		resolveSchema(sub, defs, seen)
	}
	for _, sub := range sc.AllOf {
		resolveSchema(sub, defs, seen)
	}
}

// Properties returns the ordered property pairs of an object schema.
func Properties(sc *jsonschema.Schema) []*orderedmap.Pair[string, *jsonschema.Schema] {
	if sc == nil || sc.Properties == nil {
		return nil
	}
	var pairs []*orderedmap.Pair[string, *jsonschema.Schema]
	for pair := sc.Properties.Oldest(); pair != nil; pair = pair.Next() {
		pairs = append(pairs, pair)
	}
	return pairs
}
