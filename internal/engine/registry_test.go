package engine

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
)

type stubHandler struct {
	meta core.ActionMeta
}

func (h *stubHandler) Meta() core.ActionMeta                  { return h.meta }
func (h *stubHandler) Validate(payload json.RawMessage) error { return nil }
func (h *stubHandler) Execute(tx *sql.Tx, payload json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func TestRegistry_ResolveKnownType(t *testing.T) {
	r := NewRegistry()
	h := &stubHandler{meta: core.ActionMeta{Type: "create_user", Name: "Create user"}}
	r.Register(h)

	got, err := r.Resolve("create_user")
	if err != nil {
		t.Fatalf("Expected resolve to succeed, got %v", err)
	}
	if got != h {
		t.Errorf("Expected the registered handler back")
	}
}

func TestRegistry_ResolveUnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("does_not_exist")
	if err == nil {
		t.Fatal("Expected an error for an unknown type")
	}
	if core.KindOf(err) != core.KindUnknownActionType {
		t.Errorf("Expected kind %s, got %s", core.KindUnknownActionType, core.KindOf(err))
	}
}

func TestRegistry_TypesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubHandler{meta: core.ActionMeta{Type: "create_user"}})
	r.Register(&stubHandler{meta: core.ActionMeta{Type: "create_account"}})
	r.Register(&stubHandler{meta: core.ActionMeta{Type: "create_promotion"}})

	types := r.Types()
	if len(types) != 3 {
		t.Fatalf("Expected 3 types, got %d", len(types))
	}
	want := []string{"create_account", "create_promotion", "create_user"}
	for i, m := range types {
		if m.Type != want[i] {
			t.Errorf("Expected type %s at index %d, got %s", want[i], i, m.Type)
		}
	}
}
