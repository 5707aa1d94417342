package validation

import (
	"math"

	"github.com/tidwall/gjson"
)

// ParseUserRegistration decodes and validates a user registration body.
func ParseUserRegistration(body []byte) (UserRegistration, error) {
	var in UserRegistration
	obj, err := object(body)
	if err != nil {
		return in, err
	}
	errs := &collector{}
	in.Email = errs.str(obj, "email")
	in.Password = errs.str(obj, "password")
	return in, finish(&in, errs)
}

// ParsePurchaseRegistration decodes and validates a purchase body.
func ParsePurchaseRegistration(body []byte) (PurchaseRegistration, error) {
	var in PurchaseRegistration
	obj, err := object(body)
	if err != nil {
		return in, err
	}
	errs := &collector{}
	in.UserID = errs.integer(obj, "user_id")
	in.ItemName = errs.str(obj, "item_name")
	in.Price = errs.number(obj, "price")
	return in, finish(&in, errs)
}

// ParsePaymentRegistration decodes and validates a payment body.
func ParsePaymentRegistration(body []byte) (PaymentRegistration, error) {
	var in PaymentRegistration
	obj, err := object(body)
	if err != nil {
		return in, err
	}
	errs := &collector{}
	in.UserID = errs.integer(obj, "user_id")
	in.PurchaseID = errs.integer(obj, "purchase_id")
	return in, finish(&in, errs)
}

// collector accumulates shape errors while fields are extracted.
type collector struct {
	errs Errors
}

// object parses body as a JSON object. Anything else is a single root error.
func object(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, Errors{{Field: RootField, Message: "Invalid JSON body", Type: "value_error.jsondecode"}}
	}
	obj := gjson.ParseBytes(body)
	if !obj.IsObject() {
		return gjson.Result{}, Errors{{Field: RootField, Message: "value is not a valid dict", Type: "type_error.dict"}}
	}
	return obj, nil
}

func (c *collector) add(field, msg, typ string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: msg, Type: typ})
}

// present reports whether field can be read; missing and null values are
// recorded as errors.
func (c *collector) present(obj gjson.Result, field string) (gjson.Result, bool) {
	v := obj.Get(field)
	switch {
	case !v.Exists():
		c.add(field, "field required", "value_error.missing")
		return v, false
	case v.Type == gjson.Null:
		c.add(field, "none is not an allowed value", "type_error.none.not_allowed")
		return v, false
	}
	return v, true
}

func (c *collector) str(obj gjson.Result, field string) string {
	v, ok := c.present(obj, field)
	if !ok {
		return ""
	}
	if v.Type != gjson.String {
		c.add(field, "value is not a valid string", "type_error.str")
		return ""
	}
	return v.Str
}

func (c *collector) integer(obj gjson.Result, field string) int64 {
	v, ok := c.present(obj, field)
	if !ok {
		return 0
	}
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > math.MaxInt64 {
		c.add(field, "value is not a valid integer", "type_error.integer")
		return 0
	}
	return v.Int()
}

func (c *collector) number(obj gjson.Result, field string) float64 {
	v, ok := c.present(obj, field)
	if !ok {
		return 0
	}
	if v.Type != gjson.Number {
		c.add(field, "value is not a valid float", "type_error.float")
		return 0
	}
	return v.Num
}

// finish runs the tag rules on fields that passed the shape checks and
// merges both error sets.
func finish(in any, c *collector) error {
	shapeFailed := make(map[string]bool, len(c.errs))
	for _, fe := range c.errs {
		shapeFailed[fe.Field] = true
	}

	all := c.errs
	if err := Validate(in); err != nil {
		for _, fe := range err.(Errors) {
			if !shapeFailed[fe.Field] {
				all = append(all, fe)
			}
		}
	}
	if len(all) == 0 {
		return nil
	}
	return all
}
