// Package currency форматирует денежные суммы для отображения: локализованные
// разделители, символы валют, сокращения крупных сумм, проценты и криптовалюты.
//
// Функции пакета не имеют состояния; настройки передаются через Option
// и накладываются на значения по умолчанию (en-US, группировка, 2 знака).
package currency

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Code ISO-код поддерживаемой валюты.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	CAD Code = "CAD"
	AUD Code = "AUD"
	INR Code = "INR"
	CNY Code = "CNY"
	BRL Code = "BRL"
	ZAR Code = "ZAR"
)

var supported = []Code{USD, EUR, GBP, JPY, CAD, AUD, INR, CNY, BRL, ZAR}

var supportedSet = mapset.NewSet(supported...)

var symbols = map[Code]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	JPY: "¥",
	CAD: "C$",
	AUD: "A$",
	INR: "₹",
	CNY: "¥",
	BRL: "R$",
	ZAR: "R",
}

// В этих языках символ валюты ставится после числа через неразрывный пробел.
var suffixLanguages = mapset.NewSet("de", "fr", "es", "it", "pt", "ru", "pl", "sv", "fi", "cs")

const (
	DefaultLocale        = "en-US"
	DefaultDecimalPlaces = 2
	RTLLocale            = "ar-EG"
	cryptoDecimalPlaces  = 8
)

// ErrInvalidAmount возвращается ParseCurrency, если в строке нет числа.
var ErrInvalidAmount = errors.New("invalid currency amount")

var nonNumeric = regexp.MustCompile(`[^\d.-]`)

// Options параметры форматирования.
type Options struct {
	Locale         string
	UseGrouping    bool
	DecimalPlaces  int
	CurrencySymbol string // пустая строка означает символ по умолчанию для валюты
}

// Option переопределяет одно поле Options.
type Option func(*Options)

func WithLocale(locale string) Option {
	return func(o *Options) { o.Locale = locale }
}

func WithGrouping(enabled bool) Option {
	return func(o *Options) { o.UseGrouping = enabled }
}

func WithDecimalPlaces(places int) Option {
	return func(o *Options) {
		if places >= 0 {
			o.DecimalPlaces = places
		}
	}
}

func WithSymbol(symbol string) Option {
	return func(o *Options) { o.CurrencySymbol = symbol }
}

// DefaultOptions значения по умолчанию.
func DefaultOptions() Options {
	return Options{
		Locale:        DefaultLocale,
		UseGrouping:   true,
		DecimalPlaces: DefaultDecimalPlaces,
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Symbol возвращает символ валюты. Для неподдерживаемых кодов возвращается
// сам ISO-код, если он корректен, иначе пустая строка.
func Symbol(code Code) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	if u, err := xcurrency.ParseISO(string(code)); err == nil {
		return u.String()
	}
	return ""
}

// IsSupported сообщает, есть ли валюта в списке поддерживаемых.
func IsSupported(code Code) bool {
	return supportedSet.Contains(code)
}

// SupportedCurrencies возвращает поддерживаемые валюты в фиксированном порядке.
func SupportedCurrencies() []Code {
	res := make([]Code, len(supported))
	copy(res, supported)
	return res
}

// Format форматирует сумму в валюте с учётом локали.
func Format(amount float64, code Code, opts ...Option) string {
	o := buildOptions(opts)
	symbol := o.CurrencySymbol
	if symbol == "" {
		symbol = Symbol(code)
	}
	return withSymbol(amount, symbol, o)
}

// FormatWithCustomSymbol форматирует сумму с произвольным символом перед числом.
func FormatWithCustomSymbol(amount float64, symbol string, opts ...Option) string {
	o := buildOptions(opts)
	return symbol + formatNumber(amount, o)
}

// ConvertAmount пересчитывает сумму по курсу и форматирует в целевой валюте.
// Для одинаковых валют курс не применяется.
func ConvertAmount(amount float64, from, to Code, rate float64, opts ...Option) string {
	if from == to {
		return Format(amount, to, opts...)
	}
	return Format(amount*rate, to, opts...)
}

// FormatAsPercentage отображает долю как процент: 0.1234 -> "12.34%".
func FormatAsPercentage(amount float64, places int) string {
	if !finite(amount) {
		return "NaN%"
	}
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).StringFixed(int32(places)) + "%"
}

// ParseCurrency извлекает число из отформатированной строки в стиле en-US.
func ParseCurrency(formatted string) (float64, error) {
	const op = "currency.ParseCurrency"
	cleaned := nonNumeric.ReplaceAllString(formatted, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q: %w", op, formatted, ErrInvalidAmount)
	}
	return v, nil
}

// RoundCurrency округляет сумму до places знаков (половина от нуля).
func RoundCurrency(amount float64, places int) float64 {
	if !finite(amount) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(int32(places)).InexactFloat64()
}

// FormatLargeAmount сокращает крупные суммы: $1.50M, $2.00B, $12.30K.
func FormatLargeAmount(amount float64, code Code, opts ...Option) string {
	o := buildOptions(opts)

	value, suffix := amount, ""
	switch abs := math.Abs(amount); {
	case abs >= 1e9:
		value, suffix = amount/1e9, "B"
	case abs >= 1e6:
		value, suffix = amount/1e6, "M"
	case abs >= 1e3:
		value, suffix = amount/1e3, "K"
	}
	return Symbol(code) + formatNumber(value, o) + suffix
}

// FormatNegativeAmount форматирует модуль суммы со знаком минус (возвраты).
func FormatNegativeAmount(amount float64, code Code, opts ...Option) string {
	return "-" + Format(math.Abs(amount), code, opts...)
}

// AddAmounts складывает суммы без ошибок плавающей точки.
func AddAmounts(a, b float64) float64 {
	return RoundCurrency(decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64(), DefaultDecimalPlaces)
}

// SubtractAmounts вычитает суммы без ошибок плавающей точки.
func SubtractAmounts(a, b float64) float64 {
	return RoundCurrency(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64(), DefaultDecimalPlaces)
}

// FormatForCrypto отображает сумму в BTC с заданной точностью (по умолчанию 8 знаков).
func FormatForCrypto(amount float64, places ...int) string {
	p := cryptoDecimalPlaces
	if len(places) > 0 && places[0] >= 0 {
		p = places[0]
	}
	if !finite(amount) {
		return "NaN BTC"
	}
	return decimal.NewFromFloat(amount).StringFixed(int32(p)) + " BTC"
}

// FormatZeroDecimalCurrency форматирует валюты без дробной части (JPY).
func FormatZeroDecimalCurrency(amount float64, code Code) string {
	return Format(amount, code, WithDecimalPlaces(0))
}

// FormatForRTL форматирует сумму для языков с письмом справа налево; по умолчанию ar-EG.
func FormatForRTL(amount float64, code Code, opts ...Option) string {
	return Format(amount, code, append([]Option{WithLocale(RTLLocale)}, opts...)...)
}

func withSymbol(amount float64, symbol string, o Options) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	num := formatNumber(amount, o)
	if symbolAfter(o.Locale) {
		return sign + num + "\u00a0" + symbol
	}
	return sign + symbol + num
}

func symbolAfter(locale string) bool {
	base, _ := language.Make(locale).Base()
	return suffixLanguages.Contains(base.String())
}

func formatNumber(amount float64, o Options) string {
	if !finite(amount) {
		return "NaN"
	}
	numOpts := []number.Option{number.Scale(o.DecimalPlaces)}
	if !o.UseGrouping {
		numOpts = append(numOpts, number.NoSeparator())
	}
	p := message.NewPrinter(language.Make(o.Locale))
	return p.Sprintf("%v", number.Decimal(amount, numOpts...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
