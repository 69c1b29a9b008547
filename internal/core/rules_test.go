package core

import "testing"

func orderRecord(status, payment string) Record {
	rec := Record{}
	if status != "" {
		rec.Set("order_status", TextValue(status))
	} else {
		rec.Set("order_status", Missing(FieldText))
	}
	if payment != "" {
		rec.Set("payment_method", TextValue(payment))
	} else {
		rec.Set("payment_method", Missing(FieldText))
	}
	return rec
}

func TestRules_Orders(t *testing.T) {
	r := NewRules(DefaultRulesConfig())

	tests := []struct {
		name        string
		status      string
		payment     string
		wantStatus  string
		wantPayment string
	}{
		{name: "missing status with COD ships", status: "", payment: "COD", wantStatus: "Shipped", wantPayment: "COD"},
		{name: "missing status otherwise pending", status: "", payment: "Card", wantStatus: "Pending", wantPayment: "Card"},
		{name: "missing both", status: "", payment: "", wantStatus: "Pending", wantPayment: "Unknown"},
		{name: "shipped forces COD", status: "Shipped", payment: "Card", wantStatus: "Shipped", wantPayment: "COD"},
		{name: "status case canonicalized", status: "delivered", payment: "UPI", wantStatus: "Delivered", wantPayment: "UPI"},
		{name: "known status kept", status: "Cancelled", payment: "", wantStatus: "Cancelled", wantPayment: "Unknown"},
		{name: "unknown status passes through", status: "Lost", payment: "Card", wantStatus: "Lost", wantPayment: "Card"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Apply(EntityOrders, orderRecord(tt.status, tt.payment))
			if s := got.Text("order_status"); s != tt.wantStatus {
				t.Errorf("order_status = %q, want %q", s, tt.wantStatus)
			}
			if p := got.Text("payment_method"); p != tt.wantPayment {
				t.Errorf("payment_method = %q, want %q", p, tt.wantPayment)
			}
		})
	}
}

func TestRules_ConfiguredFallbackAndStatusRule(t *testing.T) {
	r := NewRules(RulesConfig{
		FallbackPaymentMethod: "Cash",
		OrderStatus: func(status, payment string) (string, string) {
			if status == "" {
				return StatusProcessing, payment
			}
			return status, payment
		},
	})

	got := r.Apply(EntityOrders, orderRecord("", ""))
	if s := got.Text("order_status"); s != StatusProcessing {
		t.Errorf("order_status = %q, want %q", s, StatusProcessing)
	}
	if p := got.Text("payment_method"); p != "Cash" {
		t.Errorf("payment_method = %q, want %q", p, "Cash")
	}
}

func TestRules_Reviews(t *testing.T) {
	r := NewRules(DefaultRulesConfig())

	tests := []struct {
		name       string
		rating     Value
		wantValid  bool
		wantRating float64
	}{
		{name: "integer text", rating: TextValue("4"), wantValid: true, wantRating: 4},
		{name: "whole decimal", rating: TextValue("5.0"), wantValid: true, wantRating: 5},
		{name: "already numeric", rating: NumericValue("3", 3), wantValid: true, wantRating: 3},
		{name: "missing stays missing", rating: Missing(FieldText), wantValid: false},
		{name: "garbage becomes missing", rating: TextValue("great"), wantValid: false},
		{name: "fraction becomes missing", rating: TextValue("4.5"), wantValid: false},
		{name: "above scale becomes missing", rating: TextValue("6"), wantValid: false},
		{name: "below scale becomes missing", rating: TextValue("0"), wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{"rating": tt.rating, "review_text": Missing(FieldText)}
			got := r.Apply(EntityReviews, rec)

			v := got.Get("rating")
			if v.Valid != tt.wantValid {
				t.Fatalf("rating valid = %v, want %v", v.Valid, tt.wantValid)
			}
			if v.Valid && v.Num != tt.wantRating {
				t.Errorf("rating = %v, want %v", v.Num, tt.wantRating)
			}
			if got.Has("review_text") {
				t.Error("missing comment should stay missing")
			}
		})
	}
}

func TestRules_Customers(t *testing.T) {
	r := NewRules(DefaultRulesConfig())

	rec := Record{
		"name":   Missing(FieldText),
		"email":  TextValue("Jane.Doe@Example.COM"),
		"gender": TextValue("female"),
	}
	got := r.Apply(EntityCustomers, rec)

	if e := got.Text("email"); e != "jane.doe@example.com" {
		t.Errorf("email = %q", e)
	}
	if n := got.Text("name"); n != "jane.doe" {
		t.Errorf("name = %q, want local part", n)
	}
	if g := got.Text("gender"); g != GenderFemale {
		t.Errorf("gender = %q, want %q", g, GenderFemale)
	}

	// Input record is not mutated.
	if rec.Text("email") != "Jane.Doe@Example.COM" {
		t.Error("Apply mutated its input")
	}
}

func TestRules_CustomerNameKept(t *testing.T) {
	r := NewRules(DefaultRulesConfig())
	got := r.Apply(EntityCustomers, Record{
		"name":  TextValue("Jane"),
		"email": TextValue("other@example.com"),
	})
	if n := got.Text("name"); n != "Jane" {
		t.Errorf("name = %q, want existing name kept", n)
	}
}

func TestRules_CustomerStateByCountry(t *testing.T) {
	r := NewRules(DefaultRulesConfig())

	tests := []struct {
		name    string
		state   string
		country string
		want    string
	}{
		{name: "us state name abbreviated", state: "georgia", country: "USA", want: "GA"},
		{name: "united states spelled out", state: "New York", country: "United States", want: "NY"},
		{name: "us code upper cased", state: "tx", country: "us", want: "TX"},
		{name: "unknown us state kept", state: "Ontario", country: "US", want: "Ontario"},
		{name: "georgia the country untouched", state: "Tbilisi", country: "Georgia", want: "Tbilisi"},
		{name: "non us state named like a us state untouched", state: "Washington", country: "United Kingdom", want: "Washington"},
		{name: "missing country untouched", state: "california", country: "", want: "california"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{"state": TextValue(tt.state), "country": Missing(FieldText)}
			if tt.country != "" {
				rec["country"] = TextValue(tt.country)
			}
			got := r.Apply(EntityCustomers, rec)
			if s := got.Text("state"); s != tt.want {
				t.Errorf("state = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := map[string]string{
		"M": "M", "male": "M", " Man ": "M",
		"F": "F", "FEMALE": "F", "woman": "F",
		"": "Unknown", "Unknown": "Unknown", "u": "Unknown", "N/A": "Unknown",
		"non-binary": "Other", "Other": "Other", "x": "Other",
	}
	for in, want := range tests {
		if got := NormalizeGender(in); got != want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRules_Idempotent(t *testing.T) {
	r := NewRules(DefaultRulesConfig())

	cases := []struct {
		entity Entity
		rec    Record
	}{
		{EntityOrders, orderRecord("", "")},
		{EntityOrders, orderRecord("", "COD")},
		{EntityOrders, orderRecord("shipped", "Card")},
		{EntityOrders, orderRecord("Lost", "")},
		{EntityReviews, Record{"rating": TextValue("4"), "review_text": TextValue("ok")}},
		{EntityReviews, Record{"rating": TextValue("9"), "review_text": Missing(FieldText)}},
		{EntityCustomers, Record{"name": Missing(FieldText), "email": TextValue(" A@B.com "), "gender": TextValue("Male")}},
		{EntityCustomers, Record{"name": Missing(FieldText), "email": Missing(FieldText), "gender": Missing(FieldText)}},
		{EntityCustomers, Record{"name": Missing(FieldText), "email": TextValue("no-at-sign"), "gender": TextValue("?")}},
		{EntityCustomers, Record{"name": TextValue("Ann"), "state": TextValue("texas"), "country": TextValue("USA")}},
		{EntityCustomers, Record{"name": TextValue("Nino"), "state": TextValue("Georgia"), "country": TextValue("Georgia")}},
		{EntityProducts, Record{"product_id": TextValue("P1")}},
	}

	for _, c := range cases {
		once := r.Apply(c.entity, c.rec)
		twice := r.Apply(c.entity, once)
		if !once.Equal(twice) {
			t.Errorf("%s: Apply not idempotent\n once:  %+v\n twice: %+v", c.entity, once, twice)
		}
	}
}
