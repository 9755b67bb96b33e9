// SPDX-License-Identifier: MIT

package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/e2nav/e2nav/internal/config"
	"github.com/e2nav/e2nav/internal/log"
	"github.com/e2nav/e2nav/internal/sref"
)

// mimeMPEGTS is the container type of the receiver's direct stream port.
const mimeMPEGTS = "video/mp2t"

// streamPort is the receiver's raw MPEG-TS streaming port.
const streamPort = 8001

// streamDescriptor builds the player descriptor for a stream-classified
// entry: the playable URL is embedded in the reference itself, so the
// receiver's tuner is never touched. HLS manifests keep their original
// scheme behind the hls: prefix; everything else is raw MPEG-TS.
func streamDescriptor(c sref.Classification) *Stream {
	s := &Stream{
		Title:       strings.TrimSpace(c.Name),
		CanonicalID: c.Ref,
		SourceURL:   c.URL,
		HLS:         c.HLS,
	}
	if c.HLS {
		s.SourceURL = "hls:" + c.URL
	} else {
		s.MimeType = mimeMPEGTS
	}
	return s
}

// Play resolves the stream descriptor for a zap-able service. When the zap
// toggle is on, the receiver is switched first; the zap result is discarded
// because playback reads from the stream port regardless.
func (b *Builder) Play(ctx context.Context, base, ref, name string, opts config.Options) *Stream {
	c := sref.Classify(name, ref)
	if c.Kind == sref.KindStream {
		return streamDescriptor(c)
	}

	api := b.clients(base)
	if opts.ZapOn() {
		if err := api.Zap(ctx, ref); err != nil {
			zapAttempts.WithLabelValues(outcomeError).Inc()
			b.logger.Debug().Err(err).
				Str(log.FieldReceiver, base).
				Str(log.FieldServiceRef, ref).
				Msg("zap failed, playing from stream port anyway")
		} else {
			zapAttempts.WithLabelValues(outcomeOK).Inc()
		}
	}
	return &Stream{
		Title:       strings.TrimSpace(name),
		CanonicalID: base + "#" + ref,
		SourceURL:   directStreamURL(base, ref),
		MimeType:    mimeMPEGTS,
	}
}

// Current resolves a stream descriptor for whatever the receiver is tuned to
// right now.
func (b *Builder) Current(ctx context.Context, base string) (*Stream, error) {
	api := b.clients(base)
	cur, err := api.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &Stream{
		Title:       strings.TrimSpace(cur.Name),
		CanonicalID: base + "#current",
		SourceURL:   directStreamURL(base, cur.Ref),
		MimeType:    mimeMPEGTS,
	}, nil
}

// directStreamURL points at the receiver's raw MPEG-TS port. The stream port
// speaks plain HTTP even when the web interface is behind TLS, and the
// reference is appended un-reencoded.
func directStreamURL(base, ref string) string {
	base = strings.Replace(base, "https:", "http:", 1)
	return fmt.Sprintf("%s:%d/%s", base, streamPort, ref)
}
