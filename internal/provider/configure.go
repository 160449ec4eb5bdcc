package provider

import (
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/diag"
)

// clientFrom extracts the *Client handed out by the provider. ProviderData
// is nil during early validation calls, which is not an error.
func clientFrom(providerData any, diags *diag.Diagnostics) (*Client, bool) {
	if providerData == nil {
		return nil, false
	}
	client, ok := providerData.(*Client)
	if !ok {
		diags.AddError(
			"Unexpected provider data type",
			fmt.Sprintf("Expected *provider.Client, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return nil, false
	}
	return client, true
}

func requireClient(c *Client, diags *diag.Diagnostics) bool {
	if c == nil {
		diags.AddError("Provider not configured", "The iconset provider must be configured before icons can be managed or rendered.")
		return false
	}
	return true
}
