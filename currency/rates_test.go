package currency

import "testing"

func TestStaticTableIdentity(t *testing.T) {
	table := NewStaticTable(nil)

	rate, ok := table.Rate("USD", "USD")
	if !ok || rate != 1 {
		t.Errorf("identity rate: got (%v, %v), want (1, true)", rate, ok)
	}
}

func TestStaticTableUnknownPair(t *testing.T) {
	table := NewStaticTable(map[string]float64{"USD:EUR": 0.9})

	if _, ok := table.Rate("USD", "JPY"); ok {
		t.Error("expected unknown pair to be unavailable")
	}
}

func TestDefaultTableOverrides(t *testing.T) {
	table := NewDefaultTable("usd:eur=0.5, bogus, GBP:USD=notanumber")

	rate, ok := table.Rate("USD", "EUR")
	if !ok || rate != 0.5 {
		t.Errorf("override rate: got (%v, %v), want (0.5, true)", rate, ok)
	}

	// Malformed override must not clobber the built-in rate.
	rate, ok = table.Rate("GBP", "USD")
	if !ok || rate != 1.27 {
		t.Errorf("builtin rate: got (%v, %v), want (1.27, true)", rate, ok)
	}
}

func TestDefaultTableCaseInsensitive(t *testing.T) {
	table := NewDefaultTable("")

	rate, ok := table.Rate("eur", "gbp")
	if !ok || rate != 0.86 {
		t.Errorf("lowercase lookup: got (%v, %v), want (0.86, true)", rate, ok)
	}
}
