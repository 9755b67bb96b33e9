// SPDX-License-Identifier: MIT

package sref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStream(t *testing.T) {
	cases := []struct {
		name    string
		ref     string
		wantURL string
		wantHLS bool
	}{
		{
			name:    "plain http stream",
			ref:     "4097:0:1:0:0:0:0:0:0:0:http%3A%2F%2F10.0.0.5%3A8000%2Flive:Chan",
			wantURL: "http://10.0.0.5:8000/live",
		},
		{
			name:    "hls manifest",
			ref:     "4097:0:1:0:0:0:0:0:0:0:http%3A%2F%2Fx%2Fstream.m3u8:Chan",
			wantURL: "http://x/stream.m3u8",
			wantHLS: true,
		},
		{
			name:    "gstreamer type 5001",
			ref:     "5001:0:1:0:0:0:0:0:0:0:http%3A%2F%2Fhost%2Fts:Chan",
			wantURL: "http://host/ts",
		},
		{
			name:    "exteplayer type 5002",
			ref:     "5002:0:1:0:0:0:0:0:0:0:http%3A%2F%2Fhost%2Fts:Chan",
			wantURL: "http://host/ts",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify("Chan", tc.ref)
			require.Equal(t, KindStream, c.Kind)
			assert.Equal(t, tc.wantURL, c.URL)
			assert.Equal(t, tc.wantHLS, c.HLS)
		})
	}
}

func TestClassifyStreamMalformed(t *testing.T) {
	// Too few fields for a URL extraction.
	c := Classify("bad", "4097:0:1:0")
	assert.Equal(t, KindSkip, c.Kind)

	// Undecodable percent escape.
	c = Classify("bad", "4097:0:1:0:0:0:0:0:0:0:http%ZZbroken")
	assert.Equal(t, KindSkip, c.Kind)

	// Empty URL field.
	c = Classify("bad", "4097:0:1:0:0:0:0:0:0:0:")
	assert.Equal(t, KindSkip, c.Kind)
}

func TestClassifySeparator(t *testing.T) {
	c := Classify("—— Movies ——", "1:64:1:0:0:0:0:0:0:0:")
	assert.Equal(t, KindSeparator, c.Kind)
}

func TestClassifyMarker(t *testing.T) {
	for _, ref := range []string{
		"1:7:1:0:0:0:0:0:0:0:(type==1) FROM PROVIDERS ORDER BY name",
		"1:519:1:0:0:0:0:0:0:0: flags == 0",
	} {
		c := Classify("noise", ref)
		assert.Equal(t, KindSkip, c.Kind, "ref %q", ref)
	}
}

func TestClassifyDirectory(t *testing.T) {
	ref := `1:7:1:0:0:0:0:0:0:0:FROM BOUQUET "userbouquet.favourites.tv" ORDER BY bouquet`
	c := Classify("Favourites", ref)
	require.Equal(t, KindDirectory, c.Kind)
	assert.Equal(t, ref, c.Ref, "reference must be forwarded unmodified")
}

// Priority: a separator-prefixed reference that also contains a marker
// substring stays a separator, and a stream-typed reference is never tested
// against later rules.
func TestClassifyPriorityOrder(t *testing.T) {
	c := Classify("div", "1:64:0:0:0:0:0:0:0:0: flags")
	assert.Equal(t, KindSeparator, c.Kind)

	c = Classify("s", "4097:0:1:0:0:0:0:0:0:0:http%3A%2F%2Fh%2Fflags")
	assert.Equal(t, KindStream, c.Kind)
}

func TestSatellitePosition(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"(satellitePosition == 1800) && ...", "180.0E"},
		{"(satellitePosition == 2200) && ...", "140.0W"},
		{"(satellitePosition == 192) && (type==1)", "19.2E"},
		{"satellitePosition==3200", "40.0W"},
	}
	for _, tc := range cases {
		got, err := SatellitePosition(tc.ref)
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.want, got, tc.ref)
	}
}

func TestSatellitePositionMissing(t *testing.T) {
	_, err := SatellitePosition("1:7:1:0:0:0:0:0:0:0:(type==1)")
	assert.ErrorIs(t, err, ErrNoSatellitePosition)
}
