package tracker

import "testing"

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{USD(1450), "$1,450.00"},
		{EUR(0.125), "€0.13"},
		{NO(12.5), "12.50"},
	}
	for _, test := range tests {
		if got := test.m.String(); got != test.want {
			t.Errorf("%#v.String() = %q, want %q", test.m, got, test.want)
		}
	}
	if got := USD(0).SignedString(); got != "-" {
		t.Errorf("SignedString() = %q, want -", got)
	}
	if got := USD(3).SignedString(); got != "+$3.00" {
		t.Errorf("SignedString() = %q, want +$3.00", got)
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	if got := NO(10).Add(EUR(5)); got.Currency() != "EUR" || !got.Equal(EUR(15)) {
		t.Errorf("NO(10).Add(EUR(5)) = %v, want EUR 15", got)
	}
	if !NO(10).Compatible(USD(1)) || EUR(1).Compatible(USD(1)) {
		t.Errorf("Compatible() must accept the empty currency and reject different ones")
	}
	if !NO(10).Equal(USD(10)) || EUR(10).Equal(USD(10)) {
		t.Errorf("Equal() must ignore the empty currency only")
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, c := range []string{"USD", "EUR", "CHF"} {
		if err := ValidateCurrency(c); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v, want nil", c, err)
		}
	}
	for _, c := range []string{"", "usd", "XYZ1"} {
		if err := ValidateCurrency(c); err == nil {
			t.Errorf("ValidateCurrency(%q) = nil, want an error", c)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("12.50")
	if err != nil || !q.Equal(Q(12.5)) {
		t.Errorf("ParseQuantity(\"12.50\") = %v, %v, want 12.5", q, err)
	}
	if _, err := ParseQuantity("twelve"); err == nil {
		t.Errorf("ParseQuantity(\"twelve\") = nil error, want an error")
	}
}
