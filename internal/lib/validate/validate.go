// Package validate содержит чистые функции проверки пользовательского ввода
// для платёжных форм: номера карт, сроки действия, почтовые индексы,
// банковские реквизиты и денежные суммы.
//
// Все функции не имеют состояния и безопасны для конкурентного вызова.
// Некорректный ввод всегда даёт false, функции никогда не паникуют.
package validate

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"
)

var (
	emailRegex         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex         = regexp.MustCompile(`^\+(?:[0-9] ?){6,14}[0-9]$`)
	alphabeticRegex    = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphanumericRegex  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	urlRegex           = regexp.MustCompile(`(?i)^(https?://)?([\w-]+)\.([a-z]{2,})(/.*)?$`)
	einRegex           = regexp.MustCompile(`^\d{2}-\d{7}$`)
	ibanRegex          = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z\d]{1,30}$`)
	swiftRegex         = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z\d]{2}([A-Z\d]{3})?$`)
	accountNumberRegex = regexp.MustCompile(`^\d{9,12}$`)
	routingNumberRegex = regexp.MustCompile(`^\d{9}$`)
	cardholderRegex    = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	discountCodeRegex  = regexp.MustCompile(`^[A-Z0-9]{6,10}$`)
	cvvRegex           = regexp.MustCompile(`^\d{3}$`)
	amexCVVRegex       = regexp.MustCompile(`^\d{4}$`)
)

var postalCodeRegexes = map[string]*regexp.Regexp{
	"US": regexp.MustCompile(`^\d{5}(-\d{4})?$`),
	"CA": regexp.MustCompile(`^[A-Za-z]\d[A-Za-z] ?\d[A-Za-z]\d$`),
	"GB": regexp.MustCompile(`^[A-Z]{1,2}\d{1,2}[A-Z]? \d[A-Z]{2}$`),
	"AU": regexp.MustCompile(`^\d{4}$`),
	"FR": regexp.MustCompile(`^\d{5}$`),
	"DE": regexp.MustCompile(`^\d{5}$`),
}

// CurrencyDecimalPlaces каноническое число знаков после запятой по коду валюты.
// Для неизвестных кодов используется DefaultDecimalPlaces.
var CurrencyDecimalPlaces = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"JPY": 0,
}

// DefaultDecimalPlaces точность для валют, которых нет в CurrencyDecimalPlaces.
const DefaultDecimalPlaces int32 = 2

var subscriptionIntervals = mapset.NewSet("daily", "weekly", "monthly", "yearly")

// IsValidEmail проверяет формат адреса электронной почты.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidCardNumber проверяет номер карты по алгоритму Луна.
// Все нецифровые символы отбрасываются. Строка без единой цифры невалидна.
func IsValidCardNumber(cardNumber string) bool {
	sum := 0
	digits := 0
	double := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		c := cardNumber[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		digits++
		double = !double
	}
	return digits > 0 && sum%10 == 0
}

// IsValidCVV проверяет CVV: четыре цифры для amex, три для остальных карт.
func IsValidCVV(cvv, cardType string) bool {
	if strings.EqualFold(cardType, "amex") {
		return amexCVVRegex.MatchString(cvv)
	}
	return cvvRegex.MatchString(cvv)
}

// IsValidPostalCode проверяет индекс по правилам страны.
// Для стран без правила индекс считается валидным.
func IsValidPostalCode(postalCode, countryCode string) bool {
	re, ok := postalCodeRegexes[countryCode]
	if !ok {
		return true
	}
	return re.MatchString(postalCode)
}

// IsValidPhoneNumber проверяет номер телефона в международном формате.
func IsValidPhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func IsAlphabetic(input string) bool {
	return alphabeticRegex.MatchString(input)
}

func IsAlphanumeric(input string) bool {
	return alphanumericRegex.MatchString(input)
}

// IsValidPassword требует не меньше 8 символов, строчную и заглавную букву,
// цифру и спецсимвол (любой символ кроме букв, цифр, либо подчёркивание).
func IsValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

// PasswordsMatch сравнивает пароль и подтверждение.
func PasswordsMatch(password, confirmPassword string) bool {
	return password == confirmPassword
}

// IsValidURL проверяет адрес сайта; схема необязательна.
func IsValidURL(url string) bool {
	return urlRegex.MatchString(url)
}

// IsValidTaxID проверяет EIN для US; для прочих стран проверки нет.
func IsValidTaxID(taxID, countryCode string) bool {
	if countryCode == "US" {
		return einRegex.MatchString(taxID)
	}
	return true
}

func IsValidIBAN(iban string) bool {
	return ibanRegex.MatchString(iban)
}

func IsValidSWIFTCode(swift string) bool {
	return swiftRegex.MatchString(swift)
}

func IsValidAccountNumber(accountNumber string) bool {
	return accountNumberRegex.MatchString(accountNumber)
}

func IsValidRoutingNumber(routingNumber string) bool {
	return routingNumberRegex.MatchString(routingNumber)
}

// IsValidCardholderName допускает только латинские буквы и пробелы.
func IsValidCardholderName(name string) bool {
	return cardholderRegex.MatchString(name)
}

func IsValidDiscountCode(code string) bool {
	return discountCodeRegex.MatchString(code)
}

// IsValidTransactionAmount сумма транзакции должна быть больше нуля.
func IsValidTransactionAmount(amount float64) bool {
	return amount > 0
}

// IsValidSubscriptionInterval проверяет период подписки.
func IsValidSubscriptionInterval(interval string) bool {
	return subscriptionIntervals.Contains(interval)
}

// SubscriptionIntervals возвращает допустимые периоды подписки.
func SubscriptionIntervals() []string {
	return subscriptionIntervals.ToSlice()
}

// IsValidCurrencyAmount проверяет, что сумма не точнее минимальной единицы валюты:
// округление до канонического числа знаков должно вернуть ту же сумму.
func IsValidCurrencyAmount(amount float64, currencyCode string) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	places, ok := CurrencyDecimalPlaces[currencyCode]
	if !ok {
		places = DefaultDecimalPlaces
	}
	d := decimal.NewFromFloat(amount)
	return d.Round(places).Equal(d)
}
