package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
)

// Recipient is a resolved delivery target. Valid is false when no usable
// address exists for the requested channel, which callers must treat as a
// skip rather than a failure.
type Recipient struct {
	Valid       bool
	Address     string
	DisplayName string
}

// RecipientService resolves the deliverable address for a trigger's subject
type RecipientService struct {
	leadRepo repository.LeadRepository
}

// NewRecipientService creates a new recipient service
func NewRecipientService(leadRepo repository.LeadRepository) *RecipientService {
	return &RecipientService{leadRepo: leadRepo}
}

// Resolve finds the delivery address for the requested channel. An address
// supplied directly in the event payload wins over the stored lead record,
// so contact data captured in the triggering request itself is never lost
// to a stale lookup.
func (s *RecipientService) Resolve(ctx context.Context, tc *models.TriggerContext, channel models.Channel) (Recipient, error) {
	if address := payloadAddress(tc, channel); address != "" {
		return Recipient{
			Valid:       true,
			Address:     address,
			DisplayName: payloadDisplayName(tc),
		}, nil
	}

	if !tc.HasLead() {
		return Recipient{}, nil
	}

	lead, err := s.leadRepo.GetByID(ctx, *tc.LeadID)
	if err != nil {
		return Recipient{}, fmt.Errorf("failed to look up lead contact: %w", err)
	}

	var address string
	switch channel {
	case models.ChannelEmail:
		if lead.HasEmail() {
			address = *lead.Email
		}
	case models.ChannelSMS:
		if lead.HasPhone() {
			address = *lead.Phone
		}
	}

	if address == "" {
		return Recipient{}, nil
	}

	return Recipient{
		Valid:       true,
		Address:     address,
		DisplayName: lead.FullName(),
	}, nil
}

func payloadAddress(tc *models.TriggerContext, channel models.Channel) string {
	switch channel {
	case models.ChannelEmail:
		return tc.Data.Get("email")
	case models.ChannelSMS:
		return tc.Data.Get("phone")
	}
	return ""
}

func payloadDisplayName(tc *models.TriggerContext) string {
	if name := tc.Data.Get("name"); name != "" {
		return name
	}

	full := strings.TrimSpace(tc.Data.Get("first_name") + " " + tc.Data.Get("last_name"))
	if full != "" {
		return full
	}
	return "there"
}
