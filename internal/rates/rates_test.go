package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picknship/backend/internal/repo"
)

type fakeDistance struct {
	km    float64
	err   error
	calls int
	orig  string
	dest  string
}

func (f *fakeDistance) DistanceKM(_ context.Context, origin, destination string) (float64, error) {
	f.calls++
	f.orig = origin
	f.dest = destination
	return f.km, f.err
}

func quoteReq() Request {
	return Request{
		Origin: repo.Address{
			Street: "Av. Corrientes", Number: "1000", City: "CABA", PostalCode: "C1043", Country: "AR",
		},
		Destination: repo.Address{
			Street: "Av. Cabildo", Number: "2000", City: "CABA", PostalCode: "C1428", Country: "AR",
		},
	}
}

func TestQuote_DistanceTierBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		km      float64
		price   int64
		ref     string
		noQuote bool
	}{
		{km: 0, price: 3000, ref: "picknship_rate_lt_5"},
		{km: 4.999, price: 3000, ref: "picknship_rate_lt_5"},
		{km: 5.0, price: 5000, ref: "picknship_rate_5_10"},
		{km: 9.999, price: 5000, ref: "picknship_rate_5_10"},
		{km: 10.0, price: 10000, ref: "picknship_rate_10_20"},
		{km: 19.999, price: 10000, ref: "picknship_rate_10_20"},
		{km: 20.0, price: 10000, ref: "picknship_rate_10_20"},
		{km: 20.001, noQuote: true},
		{km: 50, noQuote: true},
	}

	for _, tt := range tests {
		e := NewEngine(&fakeDistance{km: tt.km}, nil, DefaultZone(), nil)
		quotes := e.Quote(context.Background(), quoteReq())
		if tt.noQuote {
			require.Empty(t, quotes, "km=%v", tt.km)
			continue
		}
		require.Len(t, quotes, 1, "km=%v", tt.km)
		q := quotes[0]
		require.Equal(t, tt.price, q.Price, "km=%v", tt.km)
		require.Equal(t, tt.price, q.PriceMerchant, "km=%v", tt.km)
		require.Equal(t, tt.ref, q.Reference, "km=%v", tt.km)
		require.Equal(t, "ARS", q.Currency)
		require.Equal(t, "ship", q.Type)
		require.True(t, q.PhoneRequired)
		require.False(t, q.AcceptsCOD)
	}
}

func TestQuote_ProviderError_EligibleZipFallsBack(t *testing.T) {
	t.Parallel()

	e := NewEngine(&fakeDistance{err: errors.New("matrix down")}, nil, DefaultZone(), nil)
	quotes := e.Quote(context.Background(), quoteReq())

	require.Len(t, quotes, 1)
	require.Equal(t, int64(10000), quotes[0].Price, "fallback charges the top tier")
	require.Equal(t, "picknship_rate_zip", quotes[0].Reference)
}

func TestQuote_ProviderError_IneligibleZip_NoQuote(t *testing.T) {
	t.Parallel()

	e := NewEngine(&fakeDistance{err: errors.New("matrix down")}, nil, DefaultZone(), nil)
	req := quoteReq()
	req.Destination.PostalCode = "5000"

	require.Empty(t, e.Quote(context.Background(), req))
}

func TestQuote_NilProvider_UsesZone(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil, nil, DefaultZone(), nil)
	quotes := e.Quote(context.Background(), quoteReq())

	require.Len(t, quotes, 1)
	require.Equal(t, "picknship_rate_zip", quotes[0].Reference)
}

func TestQuote_EmptyAddress_SkipsProvider(t *testing.T) {
	t.Parallel()

	fd := &fakeDistance{km: 3}
	e := NewEngine(fd, nil, DefaultZone(), nil)

	req := quoteReq()
	req.Destination = repo.Address{PostalCode: "C1426"}
	quotes := e.Quote(context.Background(), req)

	require.Equal(t, 0, fd.calls, "no formatted destination, no lookup")
	require.Len(t, quotes, 1)
	require.Equal(t, "picknship_rate_zip", quotes[0].Reference)
}

func TestQuote_PassesFormattedAddresses(t *testing.T) {
	t.Parallel()

	fd := &fakeDistance{km: 3}
	e := NewEngine(fd, nil, DefaultZone(), nil)
	req := quoteReq()
	e.Quote(context.Background(), req)

	require.Equal(t, req.Origin.Format(), fd.orig)
	require.Equal(t, req.Destination.Format(), fd.dest)
}

func TestQuote_CustomCurrency(t *testing.T) {
	t.Parallel()

	e := NewEngine(&fakeDistance{km: 3}, nil, DefaultZone(), nil)
	req := quoteReq()
	req.Currency = "USD"

	quotes := e.Quote(context.Background(), req)
	require.Len(t, quotes, 1)
	require.Equal(t, "USD", quotes[0].Currency)
}

func TestParseTiers(t *testing.T) {
	t.Parallel()

	got, err := ParseTiers("3:1500, 8:4000,15:9000")
	require.NoError(t, err)
	require.Equal(t, []Tier{{3, 1500}, {8, 4000}, {15, 9000}}, got)

	got, err = ParseTiers("")
	require.NoError(t, err)
	require.Equal(t, DefaultTiers(), got)

	for _, bad := range []string{"5", "0:100", "-1:100", "5:abc", "5:-1", "10:100,5:200", ","} {
		_, err := ParseTiers(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestParseZone(t *testing.T) {
	t.Parallel()

	z, err := ParseZone("1400-1500")
	require.NoError(t, err)
	require.Equal(t, Zone{Min: 1400, Max: 1500}, z)

	z, err = ParseZone("")
	require.NoError(t, err)
	require.Equal(t, DefaultZone(), z)

	for _, bad := range []string{"1400", "a-1500", "1400-b", "1500-1400"} {
		_, err := ParseZone(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestZoneContains(t *testing.T) {
	t.Parallel()

	z := DefaultZone()
	require.True(t, z.Contains("1000"))
	require.True(t, z.Contains("1429"))
	require.True(t, z.Contains("C1426"))
	require.True(t, z.Contains("c1426"))
	require.True(t, z.Contains(" 1200 "))
	require.False(t, z.Contains("999"))
	require.False(t, z.Contains("1430"))
	require.False(t, z.Contains(""))
	require.False(t, z.Contains("B1426"))
	require.False(t, z.Contains("abc"))
}

func TestZoneZipCodes(t *testing.T) {
	t.Parallel()

	z := Zone{Min: 1000, Max: 1002}
	require.Equal(t, []string{"1000", "1001", "1002", "C1000", "C1001", "C1002"}, z.ZipCodes())
}
