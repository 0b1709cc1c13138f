package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"
)

type Currency string

const (
	CLP Currency = "CLP"
	BRL Currency = "BRL"
)

// RateSource looks up the current BRL to CLP rate.
type RateSource interface {
	ExchangeRate(ctx context.Context) (*domain.ExchangeRate, error)
}

// CurrencyService converts between Chilean pesos and Brazilian reais at a
// fixed reference rate.
type CurrencyService struct {
	rate   float64
	source RateSource
	log    *zap.Logger
}

func NewCurrencyService(brlToCLP float64, source RateSource, log *zap.Logger) *CurrencyService {
	return &CurrencyService{rate: brlToCLP, source: source, log: log.Named("currency")}
}

func (s *CurrencyService) Rate() float64 {
	return s.rate
}

// ParseAmount reads user input such as "1.000", "12,50" or "R$ 30". Characters
// other than digits, comma and dot are dropped, the first comma becomes the
// decimal point and the longest numeric prefix is parsed. Garbage yields 0.
func ParseAmount(s string) float64 {
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			sb.WriteRune(r)
		}
	}
	cleaned := strings.Replace(sb.String(), ",", ".", 1)

	end, dot := 0, false
	for end < len(cleaned) {
		c := cleaned[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(cleaned[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// Convert returns the counterpart of amount, formatted with two decimals, or
// "" when amount is not positive.
func (s *CurrencyService) Convert(amount float64, from Currency) (string, error) {
	if amount <= 0 {
		return "", nil
	}
	switch from {
	case CLP:
		return strconv.FormatFloat(amount/s.rate, 'f', 2, 64), nil
	case BRL:
		return strconv.FormatFloat(amount*s.rate, 'f', 2, 64), nil
	}
	return "", fmt.Errorf("unsupported currency %q", from)
}

// LiveRate asks the assistant for today's rate and falls back to the fixed one.
func (s *CurrencyService) LiveRate(ctx context.Context) domain.ExchangeRate {
	fixed := domain.ExchangeRate{BRLToCLP: s.rate, Source: "Cotação fixa"}
	if s.source == nil {
		return fixed
	}

	r, err := s.source.ExchangeRate(ctx)
	if err != nil || r == nil || r.BRLToCLP <= 0 {
		s.log.Warn("live exchange rate unavailable, using fixed rate", zap.Error(err))
		return fixed
	}
	r.Live = true
	return *r
}

func ParseCurrency(s string) (Currency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLP", "PESO", "PESOS":
		return CLP, true
	case "BRL", "REAL", "REAIS", "R$":
		return BRL, true
	}
	return "", false
}
