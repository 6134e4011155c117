package rates

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier maps an upper distance bound (km) to a fixed price. Tiers are
// ordered by bound; the lower bound of each tier is the previous bound,
// inclusive. The last tier's upper bound is inclusive, all others are
// exclusive: 5.0 km prices at the 5-10 tier, 20.0 km at the 10-20 tier,
// anything above the last bound gets no quote.
type Tier struct {
	MaxKM float64
	Price int64
}

func DefaultTiers() []Tier {
	return []Tier{
		{MaxKM: 5, Price: 3000},
		{MaxKM: 10, Price: 5000},
		{MaxKM: 20, Price: 10000},
	}
}

// ParseTiers reads a "bound:price,bound:price" string, e.g.
// "5:3000,10:5000,20:10000". Bounds must be strictly increasing.
func ParseTiers(s string) ([]Tier, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultTiers(), nil
	}
	var out []Tier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bound, price, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("tier %q: want bound:price", part)
		}
		km, err := strconv.ParseFloat(strings.TrimSpace(bound), 64)
		if err != nil || km <= 0 {
			return nil, fmt.Errorf("tier %q: bad bound", part)
		}
		p, err := strconv.ParseInt(strings.TrimSpace(price), 10, 64)
		if err != nil || p < 0 {
			return nil, fmt.Errorf("tier %q: bad price", part)
		}
		if len(out) > 0 && km <= out[len(out)-1].MaxKM {
			return nil, fmt.Errorf("tier %q: bounds not increasing", part)
		}
		out = append(out, Tier{MaxKM: km, Price: p})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no tiers in %q", s)
	}
	return out, nil
}

// Zone is the postal-code range the service covers when no distance can
// be computed. Codes may carry a single leading letter prefix (CABA
// codes come as both "1426" and "C1426").
type Zone struct {
	Min, Max int
}

func DefaultZone() Zone { return Zone{Min: 1000, Max: 1429} }

// ParseZone reads a "min-max" range string, e.g. "1000-1429".
func ParseZone(s string) (Zone, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultZone(), nil
	}
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return Zone{}, fmt.Errorf("zone %q: want min-max", s)
	}
	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Zone{}, fmt.Errorf("zone %q: bad min", s)
	}
	max, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Zone{}, fmt.Errorf("zone %q: bad max", s)
	}
	if min > max {
		return Zone{}, fmt.Errorf("zone %q: min above max", s)
	}
	return Zone{Min: min, Max: max}, nil
}

func (z Zone) Contains(postal string) bool {
	p := strings.ToUpper(strings.TrimSpace(postal))
	if p == "" {
		return false
	}
	p = strings.TrimPrefix(p, "C")
	n, err := strconv.Atoi(p)
	if err != nil {
		return false
	}
	return n >= z.Min && n <= z.Max
}

// ZipCodes enumerates the zone as the platform expects it: plain codes
// plus the "C"-prefixed variants.
func (z Zone) ZipCodes() []string {
	out := make([]string, 0, 2*(z.Max-z.Min+1))
	for n := z.Min; n <= z.Max; n++ {
		out = append(out, strconv.Itoa(n))
	}
	for n := z.Min; n <= z.Max; n++ {
		out = append(out, "C"+strconv.Itoa(n))
	}
	return out
}
