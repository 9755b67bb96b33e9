// SPDX-License-Identifier: MIT

package openwebif

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceListXML = `<?xml version="1.0" encoding="UTF-8"?>
<e2servicelist>
 <e2service>
  <e2servicename>Favourites (TV)</e2servicename>
  <e2servicereference>1:7:1:0:0:0:0:0:0:0:FROM BOUQUET "userbouquet.favourites.tv" ORDER BY bouquet</e2servicereference>
 </e2service>
 <e2service>
  <e2servicename>News</e2servicename>
  <e2servicereference>1:0:1:6DCA:44D:1:C00000:0:0:0:</e2servicereference>
 </e2service>
</e2servicelist>`

func TestServicesEncodesAndDecodesRoundTrip(t *testing.T) {
	const ref = `1:7:1:0:0:0:0:0:0:0:(type==2)FROM BOUQUET "bouquets.radio" ORDER BY bouquet`

	var gotSRef string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/web/getservices", r.URL.Path)
		gotSRef = r.URL.Query().Get("sRef")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(serviceListXML))
	}))
	defer srv.Close()

	c := New(srv.URL, Options{})
	services, err := c.Services(context.Background(), ref)
	require.NoError(t, err)

	// The encoded form must decode byte-identical to what was passed in.
	assert.Equal(t, ref, gotSRef)

	require.Len(t, services, 2)
	assert.Equal(t, "Favourites (TV)", services[0].Name)
	assert.Equal(t, `1:7:1:0:0:0:0:0:0:0:FROM BOUQUET "userbouquet.favourites.tv" ORDER BY bouquet`, services[0].Ref)
}

func TestServicesNoSRefOmitsParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`<e2servicelist></e2servicelist>`))
	}))
	defer srv.Close()

	services, err := New(srv.URL, Options{}).Services(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestAbout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/web/about", r.URL.Path)
		_, _ = w.Write([]byte(`<e2abouts><e2about>
			<e2servicename>Das Erste HD</e2servicename>
			<e2serviceprovider>ARD</e2serviceprovider>
			<e2model>Vu+ Duo2</e2model>
			<e2imageversion>OpenATV 7.3</e2imageversion>
			<e2enigmaversion>2024-01-10</e2enigmaversion>
			<e2webifversion>OWIF 1.5</e2webifversion>
		</e2about></e2abouts>`))
	}))
	defer srv.Close()

	about, err := New(srv.URL, Options{}).About(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Vu+ Duo2", about.Model)
	assert.Equal(t, "Das Erste HD", about.ServiceName)
	assert.Equal(t, "OWIF 1.5", about.WebifVersion)
}

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<e2currentserviceinformation><e2service>
			<e2servicename>News</e2servicename>
			<e2servicereference>1:0:1:6DCA:44D:1:C00000:0:0:0:</e2servicereference>
		</e2service></e2currentserviceinformation>`))
	}))
	defer srv.Close()

	cur, err := New(srv.URL, Options{}).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "News", cur.Name)
	assert.Equal(t, "1:0:1:6DCA:44D:1:C00000:0:0:0:", cur.Ref)
}

func TestZapPassesReference(t *testing.T) {
	const ref = "1:0:1:6DCA:44D:1:C00000:0:0:0:"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/web/zap", r.URL.Path)
		assert.Equal(t, ref, r.URL.Query().Get("sRef"))
		_, _ = w.Write([]byte(`<e2simplexmlresult><e2state>true</e2state></e2simplexmlresult>`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, Options{}).Zap(context.Background(), ref))
}

func TestBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, Options{}).Services(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "getservices", apiErr.Operation)
}

func TestMalformedXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<e2servicelist><e2service>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, Options{}).Services(context.Background(), "")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL, Options{}).Services(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestScreenshotURL(t *testing.T) {
	c := New("http://10.0.0.2/", Options{})
	u := c.ScreenshotURL(1080)
	assert.Equal(t, "http://10.0.0.2/grab?format=jpg&r=1080", u)
	_, err := url.Parse(u)
	require.NoError(t, err)
}
