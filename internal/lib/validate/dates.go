package validate

import (
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// IsValidExpiryDate проверяет срок действия карты в формате MM/YY относительно текущего времени.
func IsValidExpiryDate(expiry string) bool {
	return IsValidExpiryDateAt(expiry, time.Now())
}

// IsValidExpiryDateAt проверяет срок действия MM/YY относительно now.
// Карта действует до последнего дня указанного месяца включительно; YY трактуется как 20YY.
func IsValidExpiryDateAt(expiry string, now time.Time) bool {
	month, year, ok := parseExpiry(expiry)
	if !ok {
		return false
	}
	// первый момент месяца, следующего за месяцем истечения
	end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return now.Before(end)
}

func parseExpiry(expiry string) (month, year int, ok bool) {
	mm, yy, found := strings.Cut(strings.TrimSpace(expiry), "/")
	if !found {
		return 0, 0, false
	}
	mm, yy = strings.TrimSpace(mm), strings.TrimSpace(yy)
	if len(mm) == 0 || len(mm) > 2 || len(yy) != 2 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	year, err = strconv.Atoi(yy)
	if err != nil || year < 0 {
		return 0, 0, false
	}
	return month, year, true
}

// ParseDate разбирает дату в одном из поддерживаемых форматов.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsFutureDate проверяет, что дата позже текущего момента.
func IsFutureDate(date string) bool {
	return IsFutureDateAt(date, time.Now())
}

// IsFutureDateAt проверяет, что дата позже now. Неразборчивая дата невалидна.
func IsFutureDateAt(date string, now time.Time) bool {
	t, ok := ParseDate(date)
	return ok && t.After(now)
}

// IsValidSubscriptionEndDate дата окончания подписки должна быть строго позже даты начала.
func IsValidSubscriptionEndDate(startDate, endDate string) bool {
	start, ok := ParseDate(startDate)
	if !ok {
		return false
	}
	end, ok := ParseDate(endDate)
	return ok && end.After(start)
}
