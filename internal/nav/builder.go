// SPDX-License-Identifier: MIT

package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/e2nav/e2nav/internal/config"
	"github.com/e2nav/e2nav/internal/log"
	"github.com/e2nav/e2nav/internal/openwebif"
	"github.com/e2nav/e2nav/internal/query"
	"github.com/e2nav/e2nav/internal/registry"
	"github.com/e2nav/e2nav/internal/sref"
)

// ReceiverAPI is the slice of the OpenWebif client the builder needs.
type ReceiverAPI interface {
	Services(ctx context.Context, sRef string) ([]openwebif.Service, error)
	About(ctx context.Context) (*openwebif.About, error)
	Current(ctx context.Context) (*openwebif.Service, error)
	Zap(ctx context.Context, ref string) error
	ScreenshotURL(height int) string
	Base() string
}

// ClientFactory returns a ReceiverAPI for a receiver base URL. Clients are
// cheap; one is constructed per navigation action.
type ClientFactory func(base string) ReceiverAPI

// Builder orchestrates query construction, receiver calls and reference
// classification into ordered node lists. It holds no per-request state and
// caches nothing: every navigation action hits the receiver fresh.
type Builder struct {
	registry *registry.Registry
	clients  ClientFactory
	logger   zerolog.Logger
}

// New creates a Builder over the given registry and client factory.
func New(reg *registry.Registry, clients ClientFactory) *Builder {
	return &Builder{
		registry: reg,
		clients:  clients,
		logger:   log.WithComponent("nav"),
	}
}

const emptyListLabel = "The list is empty"

// Home renders the root level: one directory node per configured receiver,
// or a passive hint when none are configured.
func (b *Builder) Home(ctx context.Context) (Page, error) {
	eps, err := b.registry.List(ctx)
	if err != nil {
		return Page{}, err
	}
	page := Page{Title: "Receivers"}
	if len(eps) == 0 {
		page.Nodes = append(page.Nodes, Node{
			Kind:  NodePassive,
			Label: "Receiver list is empty, add a receiver to get started",
		})
		return page, nil
	}
	for _, ep := range eps {
		page.Nodes = append(page.Nodes, Node{
			Kind:   NodeDirectory,
			Label:  fmt.Sprintf("%s (%s)", ep.Name, ep.URL),
			Browse: &BrowseTarget{View: "receiver", Receiver: ep.URL},
		})
	}
	return page, nil
}

// Receiver renders a receiver's home page. The about call is the gate: if it
// fails, the whole page errors instead of rendering a half-broken menu.
func (b *Builder) Receiver(ctx context.Context, base string, opts config.Options) (Page, error) {
	api := b.clients(base)
	about, err := api.About(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Str(log.FieldReceiver, base).Msg("about failed")
		return Page{}, err
	}

	description := strings.Join([]string{
		"Current service: " + about.ServiceName,
		"Service provider: " + about.Provider,
		"Receiver model: " + about.Model,
		"Firmware version: " + about.ImageVersion,
		"Enigma version: " + about.EnigmaVersion,
		"Webif version: " + about.WebifVersion,
	}, "\n")

	page := Page{Title: base}
	page.Nodes = append(page.Nodes, Node{
		Kind:        NodeVideo,
		Label:       "Stream from the current service",
		Icon:        api.ScreenshotURL(640),
		Description: description,
		Browse:      &BrowseTarget{View: "current", Receiver: base},
	})
	if opts.ShowScreenshotOn() {
		page.Nodes = append(page.Nodes, Node{
			Kind:  NodeImage,
			Label: "Screenshot from the current service",
			Image: api.ScreenshotURL(1080),
		})
	}
	page.Nodes = append(page.Nodes,
		Node{
			Kind:   NodeDirectory,
			Label:  "Bouquets",
			Browse: &BrowseTarget{View: "bouquets", Receiver: base, Domain: "tv"},
		},
		Node{
			Kind:   NodeDirectory,
			Label:  "Radio Bouquets",
			Browse: &BrowseTarget{View: "bouquets", Receiver: base, Domain: "radio"},
		},
		Node{
			Kind:   NodeDirectory,
			Label:  "Satellites",
			Browse: &BrowseTarget{View: "satellites", Receiver: base, Domain: "tv"},
		},
	)
	if opts.ShowProvidersOn() {
		page.Nodes = append(page.Nodes, Node{
			Kind:   NodeDirectory,
			Label:  "Providers",
			Browse: &BrowseTarget{View: "providers", Receiver: base, Domain: "tv"},
		})
	}
	if opts.ShowAllServicesOn() {
		page.Nodes = append(page.Nodes,
			Node{
				Kind:   NodeDirectory,
				Label:  "All services",
				Browse: &BrowseTarget{View: "all", Receiver: base, Domain: "tv"},
			},
			Node{
				Kind:   NodeDirectory,
				Label:  "All radio services",
				Browse: &BrowseTarget{View: "all", Receiver: base, Domain: "radio"},
			},
		)
	}
	return page, nil
}

// scopeLabel is the level label used in list titles.
func scopeLabel(s query.Scope, d query.Domain) string {
	switch s {
	case query.Bouquets:
		if d == query.Radio {
			return "Radio Bouquets"
		}
		return "Bouquets"
	case query.Providers:
		return "Providers"
	case query.Satellites:
		return "Satellites"
	default:
		if d == query.Radio {
			return "All radio services"
		}
		return "All services"
	}
}

// Scope renders one of the query-built list levels.
func (b *Builder) Scope(ctx context.Context, base string, s query.Scope, d query.Domain) Page {
	label := scopeLabel(s, d)
	view := viewName(s)
	api := b.clients(base)

	services, err := api.Services(ctx, query.Build(d, s))
	if err != nil {
		listRequests.WithLabelValues(view, outcomeError).Inc()
		b.logger.Warn().Err(err).Str(log.FieldReceiver, base).Str(log.FieldView, view).Msg("list fetch failed")
		return emptyPage(base, label)
	}

	var nodes []Node
	for _, svc := range services {
		if node, ok := b.scopeNode(svc, base, s, d); ok {
			nodes = append(nodes, node)
		}
	}
	if len(nodes) == 0 {
		listRequests.WithLabelValues(view, outcomeEmpty).Inc()
		return emptyPage(base, label)
	}
	listRequests.WithLabelValues(view, outcomeOK).Inc()
	return Page{
		Title: fmt.Sprintf("%s - %s (%d)", base, label, len(nodes)),
		Nodes: nodes,
	}
}

// scopeNode maps one scope-list entry to a node, or drops it.
func (b *Builder) scopeNode(svc openwebif.Service, base string, s query.Scope, d query.Domain) (Node, bool) {
	c := sref.Classify(svc.Name, svc.Ref)
	switch c.Kind {
	case sref.KindSkip:
		entriesSkipped.WithLabelValues(reasonMarker).Inc()
		return Node{}, false
	case sref.KindSeparator:
		return Node{Kind: NodeSeparator, Label: strings.TrimSpace(svc.Name)}, true
	case sref.KindStream:
		return streamNode(c), true
	}

	label := strings.TrimSpace(svc.Name)
	if s == query.Satellites {
		pos, err := sref.SatellitePosition(svc.Ref)
		if err != nil {
			entriesSkipped.WithLabelValues(reasonParseFailure).Inc()
			return Node{}, false
		}
		label = fmt.Sprintf("%s (%s)", label, pos)
	}

	if s == query.AllServices {
		// Flat service listing: entries are directly playable.
		return Node{
			Kind:   NodeVideo,
			Label:  label,
			Browse: &BrowseTarget{View: "play", Receiver: base, Ref: svc.Ref, Name: svc.Name},
		}, true
	}
	return Node{
		Kind:  NodeDirectory,
		Label: label,
		Browse: &BrowseTarget{
			View:     "services",
			Receiver: base,
			Ref:      svc.Ref,
			Name:     svc.Name,
			Domain:   d.String(),
		},
	}, true
}

// Services renders the contents of one bouquet/provider/satellite reference.
// The reference is forwarded opaquely, exactly as the receiver returned it.
func (b *Builder) Services(ctx context.Context, base, ref, name string, d query.Domain) Page {
	label := strings.TrimSpace(name)
	api := b.clients(base)

	services, err := api.Services(ctx, ref)
	if err != nil {
		listRequests.WithLabelValues("services", outcomeError).Inc()
		b.logger.Warn().Err(err).
			Str(log.FieldReceiver, base).
			Str(log.FieldServiceRef, ref).
			Msg("service list fetch failed")
		return emptyPage(base, label)
	}

	var nodes []Node
	for _, svc := range services {
		c := sref.Classify(svc.Name, svc.Ref)
		switch c.Kind {
		case sref.KindSkip:
			entriesSkipped.WithLabelValues(reasonMarker).Inc()
		case sref.KindSeparator:
			nodes = append(nodes, Node{Kind: NodeSeparator, Label: strings.TrimSpace(svc.Name)})
		case sref.KindStream:
			nodes = append(nodes, streamNode(c))
		case sref.KindDirectory:
			if strings.Contains(svc.Ref, "FROM BOUQUET") {
				// Sub-bouquet: recurse instead of play.
				nodes = append(nodes, Node{
					Kind:  NodeDirectory,
					Label: strings.TrimSpace(svc.Name),
					Browse: &BrowseTarget{
						View:     "services",
						Receiver: base,
						Ref:      svc.Ref,
						Name:     svc.Name,
						Domain:   d.String(),
					},
				})
				continue
			}
			nodes = append(nodes, Node{
				Kind:   NodeVideo,
				Label:  strings.TrimSpace(svc.Name),
				Browse: &BrowseTarget{View: "play", Receiver: base, Ref: svc.Ref, Name: svc.Name},
			})
		}
	}
	if len(nodes) == 0 {
		listRequests.WithLabelValues("services", outcomeEmpty).Inc()
		return emptyPage(base, label)
	}
	listRequests.WithLabelValues("services", outcomeOK).Inc()
	return Page{
		Title: fmt.Sprintf("%s - %s (%d)", base, label, len(nodes)),
		Nodes: nodes,
	}
}

func streamNode(c sref.Classification) Node {
	return Node{
		Kind:   NodeVideo,
		Label:  strings.TrimSpace(c.Name),
		Stream: streamDescriptor(c),
	}
}

func emptyPage(base, label string) Page {
	return Page{
		Title: fmt.Sprintf("%s - %s", base, label),
		Nodes: []Node{{Kind: NodePassive, Label: emptyListLabel}},
	}
}

func viewName(s query.Scope) string {
	switch s {
	case query.Bouquets:
		return "bouquets"
	case query.Providers:
		return "providers"
	case query.Satellites:
		return "satellites"
	default:
		return "all"
	}
}
