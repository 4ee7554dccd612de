package manifest

import (
	"testing"

	"worldkeeper/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantErr     bool
		wantUUID    string
		wantVersion model.Version
		wantTypes   int
	}{
		{
			name: "typical behavior pack",
			data: `{
				"format_version": 2,
				"header": {
					"name": "Cool Addon",
					"uuid": "11111111-2222-3333-4444-555555555555",
					"version": [1, 2, 3]
				},
				"modules": [{"type": "data", "uuid": "aaaa", "version": [1, 2, 3]}]
			}`,
			wantUUID:    "11111111-2222-3333-4444-555555555555",
			wantVersion: model.Version{1, 2, 3},
			wantTypes:   1,
		},
		{
			name: "comments and trailing commas tolerated",
			data: `{
				// exported from the editor
				"header": {
					"uuid": "abc",
					"version": [2, 0, 0],
				},
				"modules": [
					{"type": "resources"},
				],
			}`,
			wantUUID:    "abc",
			wantVersion: model.Version{2, 0, 0},
			wantTypes:   1,
		},
		{
			name:        "missing uuid is not an error",
			data:        `{"header": {"name": "no identity"}, "modules": []}`,
			wantUUID:    "",
			wantVersion: model.Version{0, 0, 1},
		},
		{
			name:        "missing version defaults",
			data:        `{"header": {"uuid": "abc"}}`,
			wantUUID:    "abc",
			wantVersion: model.Version{0, 0, 1},
		},
		{
			name:    "malformed document",
			data:    `{"header": [not json`,
			wantErr: true,
		},
		{
			name:        "wrong-typed header",
			data:        `{"header": "just a string"}`,
			wantErr:     true,
			wantVersion: model.Version{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.data))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if m.Header.UUID != "" {
					t.Errorf("malformed manifest should yield empty uuid, got %q", m.Header.UUID)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Header.UUID != tt.wantUUID {
				t.Errorf("UUID = %q, want %q", m.Header.UUID, tt.wantUUID)
			}
			if m.Header.Version != tt.wantVersion {
				t.Errorf("Version = %v, want %v", m.Header.Version, tt.wantVersion)
			}
			if len(m.ModuleTypes()) != tt.wantTypes {
				t.Errorf("got %d module types, want %d", len(m.ModuleTypes()), tt.wantTypes)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  model.Role
	}{
		{"data module", []string{"data"}, model.RoleBehavior},
		{"script module", []string{"script"}, model.RoleBehavior},
		{"legacy javascript module", []string{"javascript"}, model.RoleBehavior},
		{"resources module", []string{"resources"}, model.RoleResource},
		{"client_data module", []string{"client_data"}, model.RoleResource},
		{"behavior outranks resource", []string{"resources", "data"}, model.RoleBehavior},
		{"unknown type defaults to resource", []string{"world_template"}, model.RoleResource},
		{"no modules defaults to resource", nil, model.RoleResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.types); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.types, got, tt.want)
			}
			// Classification is deterministic: a second run never changes.
			if got := Classify(tt.types); got != tt.want {
				t.Errorf("second Classify(%v) = %q, want %q", tt.types, got, tt.want)
			}
		})
	}
}
