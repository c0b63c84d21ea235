package models

import (
	"encoding/json"
	"testing"
)

func TestRefMarshalShapes(t *testing.T) {
	pkg := &Package{ID: "p1", Title: "Goa Escape"}

	resolved, _ := json.Marshal(ResolvedRef("p1", pkg))
	var decoded map[string]any
	if err := json.Unmarshal(resolved, &decoded); err != nil {
		t.Fatalf("resolved ref is not an object: %s", resolved)
	}
	if decoded["title"] != "Goa Escape" {
		t.Fatalf("unexpected resolved payload %s", resolved)
	}

	unresolved, _ := json.Marshal(UnresolvedRef[Package]("p1"))
	if string(unresolved) != `"p1"` {
		t.Fatalf("unresolved ref should be the bare id, got %s", unresolved)
	}

	missing, _ := json.Marshal(MissingRef[Package]("p1"))
	if string(missing) != "null" {
		t.Fatalf("missing ref should be null, got %s", missing)
	}
}

func TestRefGet(t *testing.T) {
	if _, ok := UnresolvedRef[User]("u1").Get(); ok {
		t.Fatal("unresolved ref must not yield a value")
	}
	u := &User{ID: "u1"}
	got, ok := ResolvedRef("u1", u).Get()
	if !ok || got != u {
		t.Fatal("resolved ref must yield its value")
	}
}

func TestUnitPriceUsesDiscount(t *testing.T) {
	p := Package{Price: 1000}
	if p.UnitPrice() != 1000 {
		t.Fatalf("expected list price")
	}
	d := 800.0
	p.DiscountedPrice = &d
	if p.UnitPrice() != 800 {
		t.Fatalf("expected discounted price")
	}
}

func TestEnums(t *testing.T) {
	if BookingStatus("paid").Valid() || !StatusCompleted.Valid() {
		t.Fatal("booking status enum mismatch")
	}
	if PaymentStatus("done").Valid() || !PaymentRefunded.Valid() {
		t.Fatal("payment status enum mismatch")
	}
	if !StatusCancelled.Terminal() || StatusConfirmed.Terminal() {
		t.Fatal("terminal states mismatch")
	}
	if Role("owner").Valid() {
		t.Fatal("unexpected role accepted")
	}
}
