package core

import (
	"math"
	"strconv"
	"strings"
)

// Order statuses accepted by the orders table.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusReturned   = "Returned"
)

// OrderStatuses is the fixed status enumeration, in lifecycle order.
var OrderStatuses = []string{
	StatusPending, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusReturned,
}

// Gender buckets customers are collapsed into.
const (
	GenderMale    = "M"
	GenderFemale  = "F"
	GenderOther   = "Other"
	GenderUnknown = "Unknown"
)

// PaymentCOD is the cash-on-delivery payment method.
const PaymentCOD = "COD"

// OrderStatusRule derives an order's status and payment method.
// An empty string means missing, for both inputs and outputs.
// Implementations must be idempotent.
type OrderStatusRule func(status, payment string) (string, string)

// RulesConfig holds the tunables of the rules engine.
type RulesConfig struct {
	FallbackPaymentMethod string
	RatingMin             int
	RatingMax             int
	OrderStatus           OrderStatusRule // nil uses DefaultOrderStatusRule
}

// DefaultRulesConfig returns the stock rule settings.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		FallbackPaymentMethod: "Unknown",
		RatingMin:             1,
		RatingMax:             5,
		OrderStatus:           DefaultOrderStatusRule,
	}
}

// DefaultOrderStatusRule canonicalizes known statuses and fills missing ones:
// cash-on-delivery orders are Shipped, anything else is Pending. Shipped
// orders are settled cash-on-delivery.
func DefaultOrderStatusRule(status, payment string) (string, string) {
	if status != "" {
		if canon, ok := canonicalStatus(status); ok {
			status = canon
		}
	} else if strings.EqualFold(payment, PaymentCOD) {
		status = StatusShipped
	} else {
		status = StatusPending
	}

	if status == StatusShipped {
		payment = PaymentCOD
	}
	return status, payment
}

func canonicalStatus(s string) (string, bool) {
	for _, st := range OrderStatuses {
		if strings.EqualFold(s, st) {
			return st, true
		}
	}
	return s, false
}

// IsOrderStatus reports whether s is one of OrderStatuses (exact case).
func IsOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Rules applies per-entity business rules to normalized records.
type Rules struct {
	cfg RulesConfig
}

// NewRules builds a rules engine, filling zero-valued settings with defaults.
func NewRules(cfg RulesConfig) *Rules {
	def := DefaultRulesConfig()
	if strings.TrimSpace(cfg.FallbackPaymentMethod) == "" {
		cfg.FallbackPaymentMethod = def.FallbackPaymentMethod
	}
	if cfg.RatingMin == 0 && cfg.RatingMax == 0 {
		cfg.RatingMin, cfg.RatingMax = def.RatingMin, def.RatingMax
	}
	if cfg.OrderStatus == nil {
		cfg.OrderStatus = def.OrderStatus
	}
	return &Rules{cfg: cfg}
}

// Apply returns a copy of rec with the entity's rules applied.
// Apply(e, Apply(e, r)) equals Apply(e, r).
func (r *Rules) Apply(entity Entity, rec Record) Record {
	out := rec.Clone()
	switch entity {
	case EntityOrders:
		r.applyOrder(out)
	case EntityReviews:
		r.applyReview(out)
	case EntityCustomers:
		applyCustomer(out)
	}
	return out
}

func (r *Rules) applyOrder(rec Record) {
	status, payment := r.cfg.OrderStatus(rec.Text("order_status"), rec.Text("payment_method"))
	if payment == "" {
		payment = r.cfg.FallbackPaymentMethod
	}

	if status == "" {
		rec.Set("order_status", Missing(FieldText))
	} else {
		rec.Set("order_status", TextValue(status))
	}
	rec.Set("payment_method", TextValue(payment))
}

func (r *Rules) applyReview(rec Record) {
	rec.Set("rating", r.coerceRating(rec.Get("rating")))

	// Comments stay missing rather than defaulting to empty text.
	if c := rec.Get("review_text"); !c.Valid {
		rec.Set("review_text", Missing(FieldText))
	}
}

func (r *Rules) coerceRating(v Value) Value {
	if !v.Valid {
		return Missing(FieldNumeric)
	}

	f := v.Num
	if v.Type != FieldNumeric {
		_, parsed, ok := ParseNumeric(v.Text)
		if !ok {
			return Missing(FieldNumeric)
		}
		f = parsed
	}

	if f != math.Trunc(f) || f < float64(r.cfg.RatingMin) || f > float64(r.cfg.RatingMax) {
		return Missing(FieldNumeric)
	}
	return NumericValue(strconv.Itoa(int(f)), f)
}

func applyCustomer(rec Record) {
	rec.Set("gender", TextValue(NormalizeGender(rec.Text("gender"))))

	email := strings.ToLower(strings.TrimSpace(rec.Text("email")))
	if email == "" {
		rec.Set("email", Missing(FieldText))
	} else {
		rec.Set("email", TextValue(email))
	}

	// State names are only US postal codes when the customer is in the US;
	// elsewhere (Georgia the country, Western Australia) they stay as given.
	if state := rec.Text("state"); state != "" && IsUSCountry(rec.Text("country")) {
		rec.Set("state", TextValue(USStateCode(state)))
	}

	if !rec.Has("name") && email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			rec.Set("name", TextValue(email[:at]))
		}
	}
}

// NormalizeGender collapses free-form gender values into M, F, Other or Unknown.
func NormalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "man":
		return GenderMale
	case "f", "female", "woman":
		return GenderFemale
	case "", "u", "unknown", "n/a", "na", "unspecified":
		return GenderUnknown
	default:
		return GenderOther
	}
}
