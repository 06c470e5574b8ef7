package validate

import (
	"github.com/go-playground/validator"
)

// BillingForm данные платёжной формы, которые UI отправляет перед проведением платежа.
type BillingForm struct {
	FullName       string  `json:"full_name" validate:"required,min=3"`
	Email          string  `json:"email" validate:"required,billing_email"`
	Address        string  `json:"address" validate:"required"`
	City           string  `json:"city" validate:"required"`
	State          string  `json:"state" validate:"required"`
	Country        string  `json:"country" validate:"required,len=2"`
	ZipCode        string  `json:"zip_code" validate:"required"`
	PaymentMethod  string  `json:"payment_method" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gte=1"`
	Currency       string  `json:"currency" validate:"required,len=3"`
	CardholderName string  `json:"cardholder_name" validate:"required,cardholder"`
	CardNumber     string  `json:"card_number" validate:"required,luhn"`
	CardType       string  `json:"card_type" validate:"required,oneof=visa mastercard amex"`
	Expiry         string  `json:"expiry" validate:"required,card_expiry"`
	CVV            string  `json:"cvv" validate:"required"`
}

// NewFormValidator возвращает validator.Validate с зарегистрированными
// платёжными правилами: luhn, card_expiry, cardholder, billing_email,
// sub_interval, iban, swift, а также проверками BillingForm на уровне структуры
// (cvv по типу карты, postal_code по стране, currency_amount по валюте).
func NewFormValidator() *validator.Validate {
	v := validator.New()

	rules := map[string]func(string) bool{
		"luhn":          IsValidCardNumber,
		"card_expiry":   IsValidExpiryDate,
		"cardholder":    IsValidCardholderName,
		"billing_email": IsValidEmail,
		"sub_interval":  IsValidSubscriptionInterval,
		"iban":          IsValidIBAN,
		"swift":         IsValidSWIFTCode,
	}
	for tag, fn := range rules {
		check := fn
		// ошибка возможна только при пустом теге или нулевой функции
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		})
	}

	v.RegisterStructValidation(billingFormLevel, BillingForm{})
	return v
}

func billingFormLevel(sl validator.StructLevel) {
	form, ok := sl.Current().Interface().(BillingForm)
	if !ok {
		return
	}
	if form.CVV != "" && !IsValidCVV(form.CVV, form.CardType) {
		sl.ReportError(form.CVV, "CVV", "CVV", "cvv", form.CardType)
	}
	if form.ZipCode != "" && !IsValidPostalCode(form.ZipCode, form.Country) {
		sl.ReportError(form.ZipCode, "ZipCode", "ZipCode", "postal_code", form.Country)
	}
	if form.Amount != 0 && !IsValidCurrencyAmount(form.Amount, form.Currency) {
		sl.ReportError(form.Amount, "Amount", "Amount", "currency_amount", form.Currency)
	}
}
