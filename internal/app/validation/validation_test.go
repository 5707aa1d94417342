package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "github.com/R3E-Network/storefront/internal/errors"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return errs
}

func TestParseUserRegistration(t *testing.T) {
	in, err := ParseUserRegistration([]byte(`{"email":"a@x.com","password":"pw"}`))
	require.NoError(t, err)
	assert.Equal(t, UserRegistration{Email: "a@x.com", Password: "pw"}, in)
}

func TestParseUserRegistration_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Errors
	}{
		{
			name: "not json",
			body: `{"email":`,
			want: Errors{{Field: RootField, Message: "Invalid JSON body", Type: "value_error.jsondecode"}},
		},
		{
			name: "array body",
			body: `[1,2]`,
			want: Errors{{Field: RootField, Message: "value is not a valid dict", Type: "type_error.dict"}},
		},
		{
			name: "missing fields",
			body: `{}`,
			want: Errors{
				{Field: "email", Message: "field required", Type: "value_error.missing"},
				{Field: "password", Message: "field required", Type: "value_error.missing"},
			},
		},
		{
			name: "wrong type and null",
			body: `{"email":5,"password":null}`,
			want: Errors{
				{Field: "email", Message: "value is not a valid string", Type: "type_error.str"},
				{Field: "password", Message: "none is not an allowed value", Type: "type_error.none.not_allowed"},
			},
		},
		{
			name: "empty string",
			body: `{"email":"","password":"pw"}`,
			want: Errors{
				{Field: "email", Message: "ensure this value has at least 1 characters", Type: "value_error.any_str.min_length"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserRegistration([]byte(tt.body))
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestParsePurchaseRegistration(t *testing.T) {
	in, err := ParsePurchaseRegistration([]byte(`{"user_id":1,"item_name":"book","price":10.0}`))
	require.NoError(t, err)
	assert.Equal(t, PurchaseRegistration{UserID: 1, ItemName: "book", Price: 10}, in)

	in, err = ParsePurchaseRegistration([]byte(`{"user_id":2.0,"item_name":"pen","price":3}`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), in.UserID)
	assert.Equal(t, 3.0, in.Price)
}

func TestParsePurchaseRegistration_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"fractional user", `{"user_id":1.5,"item_name":"book","price":1}`, []string{"user_id"}},
		{"string user", `{"user_id":"1","item_name":"book","price":1}`, []string{"user_id"}},
		{"zero user", `{"user_id":0,"item_name":"book","price":1}`, []string{"user_id"}},
		{"price as string", `{"user_id":1,"item_name":"book","price":"10"}`, []string{"price"}},
		{"bool price", `{"user_id":1,"item_name":"book","price":true}`, []string{"price"}},
		{"all missing", `{}`, []string{"user_id", "item_name", "price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePurchaseRegistration([]byte(tt.body))
			errs := fieldErrors(t, err)
			var got []string
			for _, fe := range errs {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestParsePaymentRegistration(t *testing.T) {
	in, err := ParsePaymentRegistration([]byte(`{"user_id":1,"purchase_id":3}`))
	require.NoError(t, err)
	assert.Equal(t, PaymentRegistration{UserID: 1, PurchaseID: 3}, in)

	_, err = ParsePaymentRegistration([]byte(`{"user_id":-4,"purchase_id":"x"}`))
	errs := fieldErrors(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "purchase_id", errs[0].Field)
	assert.Equal(t, "type_error.integer", errs[0].Type)
	assert.Equal(t, "user_id", errs[1].Field)
	assert.Equal(t, "ensure this value is greater than or equal to 1", errs[1].Message)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(PaymentRegistration{UserID: 1, PurchaseID: 1}))

	errs := fieldErrors(t, Validate(UserRegistration{}))
	assert.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
}

func TestErrorsError(t *testing.T) {
	errs := Errors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}

func TestAsServiceError(t *testing.T) {
	_, err := ParsePaymentRegistration([]byte(`{}`))
	converted := AsServiceError(err)

	se := svcerrors.GetServiceError(converted)
	require.NotNil(t, se)
	assert.Equal(t, svcerrors.CodeValidation, se.Code)
	fields, ok := se.Details["fields"].([]FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 2)

	plain := assert.AnError
	assert.Same(t, plain, AsServiceError(plain))
	assert.Nil(t, AsServiceError(nil))
}
