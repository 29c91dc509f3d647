package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpCapturesTypedCodeAndChain(t *testing.T) {
	err := Wrap(CodeDependency, fmt.Errorf("connection refused"), "load cart")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected code %s, got %s", CodeDependency, d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	if d.PG != nil {
		t.Fatalf("expected no pg detail for a plain error, got %+v", d.PG)
	}
}

func TestDumpExtractsPgxConstraint(t *testing.T) {
	cause := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_cart_items_line",
		TableName:      "cart_items",
		Message:        "duplicate key value violates unique constraint",
	}
	d := Dump(Wrap(CodeConflict, fmt.Errorf("insert line: %w", cause), "create cart line"))

	if d.PG == nil {
		t.Fatal("expected pg detail")
	}
	if d.PG.Code != "23505" || d.PG.Table != "cart_items" {
		t.Fatalf("unexpected pg detail: %+v", d.PG)
	}
	if d.PG.Hint != "duplicate cart line for this variant" {
		t.Fatalf("unexpected hint: %q", d.PG.Hint)
	}

	fields := d.Fields()
	if fields["pg_constraint"] != "idx_cart_items_line" {
		t.Fatalf("expected constraint in fields, got %v", fields["pg_constraint"])
	}
	if fields["pg_hint"] != "duplicate cart line for this variant" {
		t.Fatalf("expected hint in fields, got %v", fields["pg_hint"])
	}
}

func TestDumpExtractsPqConstraint(t *testing.T) {
	cause := &pq.Error{Code: "23514", Constraint: "cart_items_quantity_check"}
	d := Dump(fmt.Errorf("adjust line: %w", cause))

	if d.PG == nil || d.PG.Code != "23514" {
		t.Fatalf("unexpected pg detail: %+v", d.PG)
	}
	if d.PG.Hint != "cart line quantity fell below 1" {
		t.Fatalf("unexpected hint: %q", d.PG.Hint)
	}
}

func TestDumpUnknownConstraintHasNoHint(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_number"}
	d := Dump(fmt.Errorf("insert: %w", cause))

	if d.PG == nil || d.PG.Hint != "" {
		t.Fatalf("expected empty hint for unmapped constraint, got %+v", d.PG)
	}
	if _, ok := d.Fields()["pg_hint"]; ok {
		t.Fatal("expected no pg_hint field for unmapped constraint")
	}
}

func TestDumpNilError(t *testing.T) {
	d := Dump(nil)
	if d.TopMessage != "" || d.Code != "" || d.Chain != nil || d.PG != nil {
		t.Fatalf("expected zero dump for nil error, got %+v", d)
	}
}
