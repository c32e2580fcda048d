package organization

type UpdateSettingsRequest struct {
	StripeEnabled *bool `json:"stripe_enabled" binding:"required"`
}

type OrganizationResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StripeEnabled bool   `json:"stripe_enabled"`
}
