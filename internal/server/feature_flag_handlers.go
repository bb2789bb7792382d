package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags handles GET /api/admin/feature-flags. It reports the raw
// FEATURE_FLAGS config alongside how each flag evaluates for the requesting
// admin, so percentage rollouts can be inspected without guessing buckets.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userID").(uint)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(adminID),
	})
}
