// SPDX-License-Identifier: MIT

package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e2nav/e2nav/internal/config"
	"github.com/e2nav/e2nav/internal/openwebif"
)

func TestPlayZapsFirst(t *testing.T) {
	const ref = "1:0:1:6DCA:44D:1:C00000:0:0:0:"
	api := &fakeAPI{}
	b, _ := newBuilder(t, api)

	s := b.Play(context.Background(), "https://192.168.0.10", ref, "News", config.Options{})
	require.Equal(t, []string{ref}, api.zapRefs, "zap precedes resolution when the toggle is on")
	assert.Equal(t, "http://192.168.0.10:8001/"+ref, s.SourceURL, "https is forced to http on the stream port")
	assert.Equal(t, "video/mp2t", s.MimeType)
	assert.Equal(t, "News", s.Title)
}

func TestPlayZapDisabled(t *testing.T) {
	off := false
	api := &fakeAPI{}
	b, _ := newBuilder(t, api)

	s := b.Play(context.Background(), base, "REF", "News", config.Options{Zap: &off})
	assert.Empty(t, api.zapRefs)
	assert.Equal(t, base+":8001/REF", s.SourceURL)
}

func TestPlayZapFailureIsIgnored(t *testing.T) {
	api := &fakeAPI{zapErr: errors.New("tuner busy")}
	b, _ := newBuilder(t, api)

	s := b.Play(context.Background(), base, "REF", "News", config.Options{})
	require.NotNil(t, s, "zap is best-effort, resolution continues")
	assert.Equal(t, base+":8001/REF", s.SourceURL)
}

func TestPlayEmbeddedStreamSkipsZap(t *testing.T) {
	api := &fakeAPI{}
	b, _ := newBuilder(t, api)

	s := b.Play(context.Background(), base,
		"4097:0:1:0:0:0:0:0:0:0:http%3A%2F%2Fhost%2Flive.m3u8:Web", "Web", config.Options{})
	assert.Empty(t, api.zapRefs, "embedded stream URLs never touch the tuner")
	assert.Equal(t, "hls:http://host/live.m3u8", s.SourceURL)
	assert.True(t, s.HLS)
	assert.Empty(t, s.MimeType)
}

func TestPlayEmbeddedPlainStream(t *testing.T) {
	b, _ := newBuilder(t, &fakeAPI{})

	s := b.Play(context.Background(), base,
		"5001:0:1:0:0:0:0:0:0:0:http%3A%2F%2Fhost%2Fts:Web", "Web", config.Options{})
	assert.Equal(t, "http://host/ts", s.SourceURL)
	assert.False(t, s.HLS)
	assert.Equal(t, "video/mp2t", s.MimeType)
}

func TestCurrent(t *testing.T) {
	api := &fakeAPI{current: &openwebif.Service{
		Name: "News",
		Ref:  "1:0:1:6DCA:44D:1:C00000:0:0:0:",
	}}
	b, _ := newBuilder(t, api)

	s, err := b.Current(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, "News", s.Title)
	assert.Equal(t, base+":8001/1:0:1:6DCA:44D:1:C00000:0:0:0:", s.SourceURL)
	assert.Equal(t, "video/mp2t", s.MimeType)
}

func TestCurrentFailure(t *testing.T) {
	b, _ := newBuilder(t, &fakeAPI{currentErr: errors.New("down")})
	_, err := b.Current(context.Background(), base)
	assert.Error(t, err)
}
