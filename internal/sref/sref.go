// SPDX-License-Identifier: MIT

// Package sref classifies Enigma2 service-reference strings.
//
// A service reference is an opaque colon-delimited token the receiver uses
// both as a channel identifier and as a filter-query payload. The receiver
// never explains what it returned; listings mix playable streams,
// sub-bouquets, visual separators and synthetic grouping rows, and the only
// way to tell them apart is the shape of the reference itself.
package sref

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the classification of a single service entry.
type Kind int

const (
	// KindDirectory is a navigable sub-list; the reference is forwarded
	// opaquely as the sRef of the next getservices call.
	KindDirectory Kind = iota
	// KindStream is an IPTV entry carrying its own playable URL.
	KindStream
	// KindSeparator is a non-selectable divider row.
	KindSeparator
	// KindSkip marks synthetic/grouping rows and unparsable entries that
	// must not be emitted at all.
	KindSkip
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindStream:
		return "stream"
	case KindSeparator:
		return "separator"
	case KindSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// streamTypes are the reference type codes that denote stream-URL-bearing
// entries embedded inside an otherwise bouquet-shaped listing.
var streamTypes = map[string]bool{
	"4097": true,
	"5001": true,
	"5002": true,
}

const (
	separatorPrefix = "1:64:"
	markerFlags     = "flags"
	markerProviders = "FROM PROVIDERS"

	// urlField is the colon-delimited field of a stream reference that
	// carries the percent-encoded playable URL.
	urlField = 10
)

// Classification is the result of classifying one service entry.
type Classification struct {
	Kind Kind
	Name string
	Ref  string

	// URL is the percent-decoded playable URL; stream entries only.
	URL string
	// HLS is set when the decoded URL points at an HLS manifest.
	HLS bool
}

// Classify decides what a single (name, reference) pair from a getservices
// response actually is. Rules run in a fixed priority order: stream,
// separator, marker, directory. A reference is never tested against a later
// rule once an earlier one matched.
func Classify(name, ref string) Classification {
	if streamTypes[firstField(ref)] {
		u, err := streamURL(ref)
		if err != nil {
			// Truncated or undecodable stream reference. Dropping the
			// entry keeps the rest of the listing rendering.
			return Classification{Kind: KindSkip, Name: name, Ref: ref}
		}
		return Classification{
			Kind: KindStream,
			Name: name,
			Ref:  ref,
			URL:  u,
			HLS:  strings.Contains(u, "m3u8"),
		}
	}
	if strings.HasPrefix(ref, separatorPrefix) {
		return Classification{Kind: KindSeparator, Name: name, Ref: ref}
	}
	if strings.Contains(ref, markerFlags) || strings.Contains(ref, markerProviders) {
		return Classification{Kind: KindSkip, Name: name, Ref: ref}
	}
	return Classification{Kind: KindDirectory, Name: name, Ref: ref}
}

func firstField(ref string) string {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		return ref[:i]
	}
	return ref
}

// streamURL extracts and percent-decodes the embedded playable URL.
func streamURL(ref string) (string, error) {
	fields := strings.Split(ref, ":")
	if len(fields) <= urlField {
		return "", fmt.Errorf("sref: reference has %d fields, need %d", len(fields), urlField+1)
	}
	u, err := url.QueryUnescape(fields[urlField])
	if err != nil {
		return "", fmt.Errorf("sref: decode stream url: %w", err)
	}
	if u == "" {
		return "", errors.New("sref: empty stream url field")
	}
	return u, nil
}

var satPosition = regexp.MustCompile(`satellitePosition\s*==\s*(\d+)`)

// ErrNoSatellitePosition reports a satellite reference without the expected
// embedded position predicate.
var ErrNoSatellitePosition = errors.New("sref: no satellitePosition predicate")

// SatellitePosition derives the human position label from a satellite list
// reference. Positions are stored as degrees multiplied by ten, with west
// longitudes encoded as 360 minus the actual position.
func SatellitePosition(ref string) (string, error) {
	m := satPosition.FindStringSubmatch(ref)
	if m == nil {
		return "", ErrNoSatellitePosition
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("sref: satellite position %q: %w", m[1], err)
	}
	deg := float64(n) / 10
	if deg > 180 {
		return fmt.Sprintf("%.1fW", 360-deg), nil
	}
	return fmt.Sprintf("%.1fE", deg), nil
}
