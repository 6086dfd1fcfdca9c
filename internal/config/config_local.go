//go:build !gcloud

package config

// validatePlatform accepts a missing delivery channel locally; the process
// then logs notifications instead of sending them.
func (c *DeliveryConfig) validatePlatform() error {
	return nil
}
