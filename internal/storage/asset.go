package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidatingSpec is anything that can be stored as an asset.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope around every stored record.
type Asset[T ValidatingSpec] struct {
	Version uint   `json:"version"`
	Id      string `json:"id"`
	Spec    T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Id == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !ValidId(a.Id) {
		el.Add(fmt.Errorf("id %q must be lowercase alphanumeric with hyphens", a.Id))
	}

	if isNil(a.Spec) {
		el.Add(fmt.Errorf("spec must be set"))
	} else {
		el.Add(a.Spec.Validate())
	}

	return el.Err()
}

// ValidId reports whether id can be used as an asset identifier.
func ValidId(id string) bool {
	return identifierPattern.MatchString(id)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// SmartIdentifier is a reference to another asset. It serializes as the bare
// key and is resolved against a Storer after loading.
type SmartIdentifier[T ValidatingSpec] struct {
	key string
	val T
}

func NewSmartIdentifier[T ValidatingSpec](key string) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key}
}

func NewResolvedSmartIdentifier[T ValidatingSpec](key string, val T) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key, val: val}
}

func (id *SmartIdentifier[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &id.key)
}

func (id SmartIdentifier[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.key)
}

func (id SmartIdentifier[T]) Validate() error {
	if id.key == "" {
		return fmt.Errorf("%s identifier is required", typeName[T]())
	}
	return nil
}

// Resolve looks the key up in st and caches the result.
func (id *SmartIdentifier[T]) Resolve(st Storer[T]) error {
	id.val = st.Get(id.key)
	if isNil(id.val) {
		return fmt.Errorf("%s %q not found", typeName[T](), id.key)
	}
	return nil
}

// Key returns the referenced asset id.
func (id SmartIdentifier[T]) Key() string {
	return id.key
}

// Value returns the resolved asset, or the zero value if unresolved.
func (id SmartIdentifier[T]) Value() T {
	return id.val
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
