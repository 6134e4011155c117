package reconcile

import "github.com/picknship/backend/internal/repo"

// Change holds the before/after rendering of a single tracked field.
type Change struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Diff maps tracked field names to their change. Empty means the
// replayed snapshot was identical to the stored one.
type Diff map[string]Change

// Compare returns the field-level differences between two snapshots of
// the same order. It is a pure function: no storage, no transport.
// The shipping address is compared as a whole value, the total with
// decimal equality, everything else with case-sensitive string equality.
func Compare(old, incoming repo.Snapshot) Diff {
	d := Diff{}

	cmp := func(field, o, n string) {
		if o != n {
			d[field] = Change{Old: o, New: n}
		}
	}

	cmp("customer_name", old.CustomerName, incoming.CustomerName)
	cmp("customer_email", old.CustomerEmail, incoming.CustomerEmail)
	cmp("customer_phone", old.CustomerPhone, incoming.CustomerPhone)
	if !old.Total.Equal(incoming.Total) {
		d["total"] = Change{Old: old.Total.String(), New: incoming.Total.String()}
	}
	cmp("status", old.Status, incoming.Status)
	cmp("shipping_method", old.ShippingMethod, incoming.ShippingMethod)
	cmp("shipping_option", old.ShippingOption, incoming.ShippingOption)
	if old.ShippingAddress != incoming.ShippingAddress {
		d["shipping_address"] = Change{
			Old: old.ShippingAddress.Format(),
			New: incoming.ShippingAddress.Format(),
		}
	}

	return d
}
