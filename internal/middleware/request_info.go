package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const (
	ClientIPContextKey  = "client_ip"
	UserAgentContextKey = "user_agent"
)

// RequestInfo captures the caller's address and user agent so handlers
// can attach them to sessions and audit entries. CF-Connecting-IP wins
// over the socket address when the app sits behind Cloudflare.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.Get("CF-Connecting-IP")
		if ip == "" {
			ip = c.IP()
		}

		c.Locals(ClientIPContextKey, ip)
		c.Locals(UserAgentContextKey, c.Get("User-Agent"))

		return c.Next()
	}
}

func GetClientIP(c *fiber.Ctx) string {
	ip, _ := c.Locals(ClientIPContextKey).(string)
	return ip
}

func GetUserAgent(c *fiber.Ctx) string {
	ua, _ := c.Locals(UserAgentContextKey).(string)
	return ua
}
