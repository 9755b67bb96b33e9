// SPDX-License-Identifier: MIT

// Package query builds OpenWebif getservices filter queries.
//
// A filter query is a pseudo service reference the receiver evaluates
// server-side: a constant root prefix, a type predicate selecting TV or
// radio services, and an optional FROM/ORDER clause selecting the listing
// scope. Queries are only ever constructed here, never parsed back.
package query

import "fmt"

// Domain selects the content domain of a listing.
type Domain int

const (
	TV Domain = iota
	Radio
)

func (d Domain) String() string {
	if d == Radio {
		return "radio"
	}
	return "tv"
}

// Scope selects which listing the receiver should produce.
type Scope int

const (
	AllServices Scope = iota
	Providers
	Bouquets
	Satellites
)

// rootPrefix is constant across all OpenWebif filter queries.
const rootPrefix = "1:7:1:0:0:0:0:0:0:0:"

const (
	tvPredicate    = "(type==1)||(type==17)||(type==195)||(type==25)"
	radioPredicate = "(type==2)"
)

// Build returns the filter query for the given domain and scope. No receiver
// capability validation happens here: an unsupported scope simply yields an
// empty listing from the receiver.
func Build(d Domain, s Scope) string {
	pred := tvPredicate
	root := "bouquets.tv"
	if d == Radio {
		pred = radioPredicate
		root = "bouquets.radio"
	}
	switch s {
	case Providers:
		return rootPrefix + pred + "FROM PROVIDERS ORDER BY name"
	case Bouquets:
		return rootPrefix + pred + fmt.Sprintf("FROM BOUQUET %q ORDER BY bouquet", root)
	case Satellites:
		return rootPrefix + pred + "FROM SATELLITES ORDER BY name"
	default:
		return rootPrefix + pred + "ORDER BY name"
	}
}
