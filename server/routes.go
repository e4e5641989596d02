package server

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/component"
)

const (
	healthPath  = "/health"
	versionPath = "/version"
)

var methodRank = map[string]int{
	"GET":    1,
	"POST":   2,
	"PUT":    3,
	"PATCH":  4,
	"DELETE": 5,
}

func isSystem(path string) bool {
	return path == healthPath || path == versionPath
}

// listRoutes orders application routes by path and method, with the
// built-in endpoints last.
func listRoutes(infos gin.RoutesInfo) []component.Route {
	slices.SortFunc(infos, func(a, b gin.RouteInfo) int {
		if sa, sb := isSystem(a.Path), isSystem(b.Path); sa != sb {
			if sa {
				return 1
			}
			return -1
		}
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			cmp.Compare(rank(a.Method), rank(b.Method)),
		)
	})

	out := make([]component.Route, len(infos))
	for i, r := range infos {
		out[i] = component.Route{Method: r.Method, Path: r.Path, Handler: handlerLabel(r.Handler)}
	}
	return out
}

func rank(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank) + 1
}

// handlerLabel turns gin's fully qualified handler name into something
// short enough for the startup summary:
//
//	github.com/kbukum/authgate/api.(*Handler).Login-fm  -> Handler.Login
//	github.com/kbukum/authgate/server/endpoint.Health.func1 -> health
func handlerLabel(full string) string {
	name := full[strings.LastIndexByte(full, '/')+1:]
	name = strings.TrimSuffix(name, "-fm")
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	for i := 1; i < len(parts); i++ {
		// Closure returned by a constructor: label it by the constructor.
		if strings.HasPrefix(parts[i], "func") {
			return strings.ToLower(parts[i-1])
		}
	}
	if len(parts) > 1 && strings.ToLower(parts[0]) == parts[0] {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
