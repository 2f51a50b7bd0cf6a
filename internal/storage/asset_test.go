package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type testSpec struct {
	valid bool
}

func (s *testSpec) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset   Asset[*testSpec]
		expErrs []string
	}{
		"valid asset": {
			asset: Asset[*testSpec]{Version: 1, Id: "test-id", Spec: &testSpec{valid: true}},
		},
		"version not set": {
			asset:   Asset[*testSpec]{Version: 0, Id: "test-id", Spec: &testSpec{valid: true}},
			expErrs: []string{"version must be set"},
		},
		"empty identifier": {
			asset:   Asset[*testSpec]{Version: 1, Spec: &testSpec{valid: true}},
			expErrs: []string{"id must be set"},
		},
		"identifier with spaces": {
			asset:   Asset[*testSpec]{Version: 1, Id: "test id", Spec: &testSpec{valid: true}},
			expErrs: []string{"must be lowercase alphanumeric"},
		},
		"identifier with uppercase": {
			asset:   Asset[*testSpec]{Version: 1, Id: "Goblin", Spec: &testSpec{valid: true}},
			expErrs: []string{"must be lowercase alphanumeric"},
		},
		"missing spec": {
			asset:   Asset[*testSpec]{Version: 1, Id: "test-id"},
			expErrs: []string{"spec must be set"},
		},
		"multiple errors": {
			asset:   Asset[*testSpec]{Spec: &testSpec{valid: false}},
			expErrs: []string{"version must be set", "id must be set", "spec is invalid"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.expErrs)
			}
			for _, e := range tt.expErrs {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("error %q does not contain %q", err.Error(), e)
				}
			}
		})
	}
}

func TestSmartIdentifier(t *testing.T) {
	store := &mockStorer{records: map[string]*testSpec{"known": {valid: true}}}

	tests := map[string]struct {
		raw    string
		expKey string
		expErr string
	}{
		"resolves": {
			raw:    `"known"`,
			expKey: "known",
		},
		"unknown key": {
			raw:    `"missing"`,
			expKey: "missing",
			expErr: `testSpec "missing" not found`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var id SmartIdentifier[*testSpec]
			if err := json.Unmarshal([]byte(tt.raw), &id); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "key", id.Key(), tt.expKey)

			err := id.Resolve(store)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "value", id.Value(), store.records["known"])

			out, err := json.Marshal(id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "marshalled", string(out), tt.raw)
		})
	}
}

func TestSmartIdentifier_ValidateEmpty(t *testing.T) {
	var id SmartIdentifier[*testSpec]
	testutil.AssertErrorContains(t, id.Validate(), "testSpec identifier is required")
}

type mockStorer struct {
	records map[string]*testSpec
}

func (m *mockStorer) Save(id string, o *testSpec) error {
	m.records[id] = o
	return nil
}

func (m *mockStorer) Get(id string) *testSpec {
	return m.records[id]
}

func (m *mockStorer) GetAll() map[string]*testSpec {
	return m.records
}
