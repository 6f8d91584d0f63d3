package rates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Get(t *testing.T) {
	s := New("EUR", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), map[string]float64{
		"USD": 1.20,
		"SEK": 10.30,
	})

	usd, ok := s.Get("USD")
	assert.True(t, ok)
	assert.Equal(t, 1.20, usd)

	sek, ok := s.Get("SEK")
	assert.True(t, ok)
	assert.Equal(t, 10.30, sek)

	chf, ok := s.Get("CHF")
	assert.False(t, ok)
	assert.Zero(t, chf)
}

func TestSnapshot_ZeroRateIsKnown(t *testing.T) {
	s := New("EUR", time.Now(), map[string]float64{"XXX": 0})

	v, ok := s.Get("XXX")
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestSnapshot_IsolatedFromInputMap(t *testing.T) {
	in := map[string]float64{"USD": 1.20}
	s := New("EUR", time.Now(), in)

	in["USD"] = 9.99
	in["GBP"] = 0.85

	v, _ := s.Get("USD")
	assert.Equal(t, 1.20, v)
	_, ok := s.Get("GBP")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshot_DateTruncatedToDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s := New("EUR", time.Date(2020, 1, 3, 1, 30, 0, 0, loc), nil)

	assert.Equal(t, time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), s.Date())
	assert.Equal(t, "EUR", s.Base())
	assert.Empty(t, s.Codes())
}

func TestSnapshot_Codes(t *testing.T) {
	s := New("EUR", time.Now(), map[string]float64{"USD": 1, "CHF": 2, "SEK": 3})
	assert.Equal(t, []string{"CHF", "SEK", "USD"}, s.Codes())
}

func TestSnapshot_JSON(t *testing.T) {
	s := New("EUR", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), map[string]float64{"USD": 1.21})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":"EUR","date":"2020-01-02","rates":{"USD":1.21}}`, string(data))

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s.Base(), got.Base())
	assert.True(t, s.Date().Equal(got.Date()))
	v, ok := got.Get("USD")
	assert.True(t, ok)
	assert.Equal(t, 1.21, v)
}

func TestSnapshot_UnmarshalBadDate(t *testing.T) {
	var s Snapshot
	err := json.Unmarshal([]byte(`{"base":"EUR","date":"02/01/2020","rates":{}}`), &s)
	assert.Error(t, err)
}

func TestPointOf(t *testing.T) {
	day := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	s := New("EUR", day, map[string]float64{"USD": 1.22})

	assert.Equal(t, Point{Date: day, Value: 1.22, Found: true}, PointOf(s, "USD"))
	assert.Equal(t, Point{Date: day}, PointOf(s, "CHF"))
}
