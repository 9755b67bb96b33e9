// SPDX-License-Identifier: MIT

// Package nav builds the navigation tree the UI shell renders: receivers at
// the root, then per-receiver scope lists (bouquets, satellites, providers,
// all services), then service lists, terminating in playable streams.
package nav

// NodeKind is the render hint for one navigable item.
type NodeKind string

const (
	NodeDirectory NodeKind = "directory"
	NodeVideo     NodeKind = "video"
	NodeImage     NodeKind = "image"
	NodeSeparator NodeKind = "separator"
	NodePassive   NodeKind = "passive"
)

// BrowseTarget is the child-query descriptor of a navigable node. The shell
// feeds it back into the browse or play API verbatim.
type BrowseTarget struct {
	View     string `json:"view"`
	Receiver string `json:"receiver,omitempty"`
	Ref      string `json:"ref,omitempty"`
	Name     string `json:"name,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// Stream is the descriptor handed to the external player.
type Stream struct {
	Title       string `json:"title"`
	CanonicalID string `json:"canonicalId"`
	SourceURL   string `json:"sourceUrl"`
	MimeType    string `json:"mimeType,omitempty"`
	HLS         bool   `json:"hls,omitempty"`
}

// Node is one unit handed to the UI shell. Exactly one of Browse, Stream or
// Image is set for selectable kinds; separators and passive rows carry only
// a label.
type Node struct {
	Kind        NodeKind      `json:"kind"`
	Label       string        `json:"label"`
	Icon        string        `json:"icon,omitempty"`
	Description string        `json:"description,omitempty"`
	Browse      *BrowseTarget `json:"browse,omitempty"`
	Stream      *Stream       `json:"stream,omitempty"`
	Image       string        `json:"image,omitempty"`
}

// Page is an ordered node list plus its display title.
type Page struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
}
