package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// allowedMethods are the verbs the report API serves. Reports are read-only,
// so nothing beyond GET and POST is ever advertised.
var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodOptions: {},
}

// New returns a CORS middleware for the report API. Preflights from an origin
// outside allowedOrigins are refused with 403, and preflights asking for a
// method the API does not serve are refused with 405. Export downloads expose
// Content-Disposition so browsers can read the suggested filename.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := allowAll || hasOrigin(originSet, origin)
		header := c.Writer.Header()
		header.Set("Vary", "Origin")

		if origin != "" && allowed {
			header.Set("Access-Control-Allow-Origin", origin)
		} else if origin == "" && allowAll {
			header.Set("Access-Control-Allow-Origin", "*")
		}

		if c.Request.Method != http.MethodOptions {
			if allowed {
				header.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
			}
			c.Next()
			return
		}

		if origin != "" && !allowed {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		if requested := c.GetHeader("Access-Control-Request-Method"); requested != "" {
			if _, ok := allowedMethods[strings.ToUpper(requested)]; !ok {
				header.Set("Allow", "GET, POST, OPTIONS")
				c.AbortWithStatus(http.StatusMethodNotAllowed)
				return
			}
		}

		header.Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, X-Request-ID")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
	}
}

func hasOrigin(originSet map[string]struct{}, origin string) bool {
	if len(originSet) == 0 {
		return true
	}

	origin = strings.TrimRight(origin, "/")
	_, ok := originSet[origin]
	return ok
}
