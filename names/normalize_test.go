package names

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Holdings, Inc.", "Acme Holdings"},
		{"Acme Co.", "Acme"},
		{"Acme Corp. LLC", "Acme"},
		{"Apple Inc.", "Apple"},
		{"Microsoft Corporation", "Microsoft"},
		{"Amazon.com, Inc.", "Amazon.com"},
		{"Procter & Gamble Company (The)", "Procter & Gamble"},
		{"SAP SE", "SAP"},
		{"Siemens AG", "Siemens"},
		{"Nestle S.A.", "Nestle"},
		{"ASML Holding N.V.", "ASML Holding"},
		{"Shell plc", "Shell"},
		{"Alphabet Inc. Class A Common Stock", "Alphabet"},
		{"Taiwan Semiconductor Manufacturing Company Limited", "Taiwan Semiconductor Manufacturing"},
		{"Boise Cascade", "Boise Cascade"},
		{"  Acme   Widgets ,  ", "Acme Widgets"},
		{"Inc.", "Inc."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Holdings, Inc.",
		"Acme Corp. LLC",
		"Berkshire Hathaway Inc. Class B",
		"Johnson & Johnson",
		"Lowe's Companies, Inc.",
		"X, Ltd., PLC",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
