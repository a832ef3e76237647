package server

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component registers the Server with the component registry. It is
// registered after configure, so it starts last and stops first.
type Component struct {
	server *Server
}

func NewComponent(s *Server) *Component { return &Component{server: s} }

func (c *Component) Name() string                    { return componentName }
func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }
func (c *Component) Stop(ctx context.Context) error  { return c.server.Stop(ctx) }

func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	if !c.server.listening() {
		h.Status, h.Message = component.StatusUnhealthy, "not listening"
	}
	return h
}

func (c *Component) Describe() component.Description {
	cfg := c.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d h2c max_body=%s", cfg.Host, cfg.Port, cfg.MaxBodySize),
		Port:    cfg.Port,
	}
}

var (
	probePaths = []string{"/health", "/live", "/ready", "/info", "/metrics"}
	methods    = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
)

// rank puts API routes before probes, then orders by path and method.
func rank(a, b gin.RouteInfo) int {
	aProbe, bProbe := slices.Contains(probePaths, a.Path), slices.Contains(probePaths, b.Path)
	if aProbe != bProbe {
		if aProbe {
			return 1
		}
		return -1
	}
	return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(methodRank(a.Method), methodRank(b.Method)))
}

func methodRank(m string) int {
	if i := slices.Index(methods, m); i >= 0 {
		return i
	}
	return len(methods)
}

func (c *Component) Routes() []component.Route {
	infos := c.server.engine.Routes()
	slices.SortFunc(infos, rank)
	routes := make([]component.Route, len(infos))
	for i, r := range infos {
		routes[i] = component.Route{Method: r.Method, Path: r.Path, Handler: formatHandlerName(r.Handler)}
	}
	return routes
}

// formatHandlerName shortens Gin's handler names:
// ".../api.(*Handler).Voice-fm" is "Handler.Voice" and a closure such as
// ".../endpoint.Health.func1" is "health".
func formatHandlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	name = name[strings.LastIndex(name, "/")+1:]
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if strings.Contains(name, ".func") {
		for _, p := range slices.Backward(parts) {
			if !strings.HasPrefix(p, "func") {
				return strings.ToLower(p)
			}
		}
	}
	if len(parts) > 1 && strings.ToLower(parts[0]) == parts[0] {
		return strings.Join(parts[1:], ".")
	}
	return name
}
