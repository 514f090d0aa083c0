package orgs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/services/web/forms"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

type service struct {
	store  webstorage.Store
	sender mail.Sender

	now   func() time.Time
	newID func() string
}

func newService(deps module.Dependencies) service {
	return service{
		store:  deps.Store,
		sender: deps.Sender,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s service) orgByID(ctx context.Context, orgID string) (webstorage.Organization, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return webstorage.Organization{}, apperrors.E(apperrors.KindInvalidInput, "organization id is required")
	}
	org, ok, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return webstorage.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	if !ok {
		return webstorage.Organization{}, apperrors.E(apperrors.KindNotFound, "organization not found")
	}
	return org, nil
}

func (s service) memberTeams(ctx context.Context, org webstorage.Organization) ([]webstorage.Team, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	var members []webstorage.Team
	for _, team := range teams {
		if team.OrgID == org.ID {
			members = append(members, team)
		}
	}
	return members, nil
}

func (s service) createOrg(ctx context.Context, form forms.OrganizationForm, owner webstorage.Profile) (webstorage.Organization, error) {
	org := webstorage.Organization{
		ID:          s.newID(),
		Name:        form.Name,
		Description: form.Description,
		CoverImgURL: form.CoverImgURL,
		OwnerID:     owner.ID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateOrganization(ctx, org); err != nil {
		return webstorage.Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

// adminTeamIDs returns the teams a profile can speak for when dealing
// with organizations.
func (s service) adminTeamIDs(ctx context.Context, profileID string) ([]string, error) {
	teams, err := s.store.ListTeamsForProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	var ids []string
	for _, team := range teams {
		if team.OwnerID == profileID {
			ids = append(ids, team.ID)
			continue
		}
		member, ok, err := s.store.GetMember(ctx, team.ID, profileID)
		if err != nil {
			return nil, fmt.Errorf("get member: %w", err)
		}
		if ok && member.Role == webstorage.MemberRoleAdmin {
			ids = append(ids, team.ID)
		}
	}
	return ids, nil
}

func (s service) requestToJoin(ctx context.Context, org webstorage.Organization, teamID string) error {
	request := webstorage.OrgTeamRequest{
		ID:        s.newID(),
		OrgID:     org.ID,
		TeamID:    teamID,
		FromOrg:   false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateOrgTeamRequest(ctx, request); err != nil {
		return fmt.Errorf("create join request: %w", err)
	}
	return nil
}

func (s service) inviteTeam(ctx context.Context, org webstorage.Organization, teamID string) error {
	request := webstorage.OrgTeamRequest{
		ID:        s.newID(),
		OrgID:     org.ID,
		TeamID:    teamID,
		FromOrg:   true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateOrgTeamRequest(ctx, request); err != nil {
		return fmt.Errorf("create team invite: %w", err)
	}
	return nil
}

// requestByID resolves a pending affiliation request scoped to an org.
func (s service) requestByID(ctx context.Context, org webstorage.Organization, requestID string) (webstorage.OrgTeamRequest, error) {
	request, ok, err := s.store.GetOrgTeamRequest(ctx, requestID)
	if err != nil {
		return webstorage.OrgTeamRequest{}, fmt.Errorf("get request: %w", err)
	}
	if !ok || request.OrgID != org.ID {
		return webstorage.OrgTeamRequest{}, apperrors.E(apperrors.KindNotFound, "request not found")
	}
	if !request.AcceptedAt.IsZero() {
		return webstorage.OrgTeamRequest{}, apperrors.E(apperrors.KindInvalidInput, "this request was already accepted")
	}
	return request, nil
}

// accept finalizes a pending affiliation. A join request needs the org
// owner; an invite needs an admin of the invited team.
func (s service) accept(ctx context.Context, org webstorage.Organization, request webstorage.OrgTeamRequest, profile webstorage.Profile) error {
	if request.FromOrg {
		adminIDs, err := s.adminTeamIDs(ctx, profile.ID)
		if err != nil {
			return err
		}
		authorized := false
		for _, id := range adminIDs {
			if id == request.TeamID {
				authorized = true
			}
		}
		if !authorized {
			return apperrors.E(apperrors.KindForbidden, "only an admin of the invited team can accept")
		}
	} else if org.OwnerID != profile.ID {
		return apperrors.E(apperrors.KindForbidden, "only the organization owner can accept")
	}
	if err := s.store.AcceptOrgTeamRequest(ctx, request.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("accept request: %w", err)
	}
	return nil
}

// contact mails the organization owner, or the admins of every member
// team when the message is addressed to "members".
func (s service) contact(ctx context.Context, org webstorage.Organization, form forms.OrgContactForm, from webstorage.Profile) error {
	recipients := map[string]bool{org.OwnerID: true}
	if form.To == forms.ContactMembers {
		teams, err := s.memberTeams(ctx, org)
		if err != nil {
			return err
		}
		for _, team := range teams {
			recipients[team.OwnerID] = true
			members, err := s.store.ListMembers(ctx, team.ID)
			if err != nil {
				return fmt.Errorf("list team members: %w", err)
			}
			for _, member := range members {
				if member.Role == webstorage.MemberRoleAdmin {
					recipients[member.ProfileID] = true
				}
			}
		}
	}
	var sent int
	for profileID := range recipients {
		profile, ok, err := s.store.GetProfile(ctx, profileID)
		if err != nil {
			return fmt.Errorf("get recipient profile: %w", err)
		}
		if !ok || !profile.SendNotifications {
			continue
		}
		message := mail.Message{
			To:      profile.Email,
			Subject: fmt.Sprintf("A message about %s", org.Name),
			Body:    fmt.Sprintf("%s\n\nSent by %s via %s\n", form.Body, from.Email, org.Name),
		}
		if err := s.sender.Send(ctx, message); err != nil {
			return fmt.Errorf("send contact mail: %w", err)
		}
		sent++
	}
	if sent == 0 {
		return apperrors.E(apperrors.KindInvalidInput, "no reachable recipients")
	}
	return nil
}
