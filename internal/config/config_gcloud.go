//go:build gcloud

package config

// validatePlatform requires a real delivery channel in deployed builds.
func (c *DeliveryConfig) validatePlatform() error {
	if !c.PushEnabled() && !c.EmailEnabled() {
		return ErrNoDeliveryChannel
	}
	return nil
}
