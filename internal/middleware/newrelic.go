package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"chargenow/internal/domain"
)

// TagTransaction adds the principal and request id to the New Relic
// transaction started by nrgin. It is a no-op when New Relic is disabled.
func TagTransaction() gin.HandlerFunc {
	return func(c *gin.Context) {
		if txn := nrgin.Transaction(c); txn != nil {
			if p := CurrentPrincipal(c); p != nil {
				txn.AddAttribute("principal.role", domain.RoleOf(p))
				if id, ok := domain.PrincipalID(p); ok {
					txn.AddAttribute("principal.id", id)
				}
			}
			if id := RequestID(c); id != "" {
				txn.AddAttribute("request.id", id)
			}
		}
		c.Next()
	}
}
