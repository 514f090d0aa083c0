package teams

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/services/web/forms"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

type service struct {
	store   webstorage.Store
	sender  mail.Sender
	baseURL string

	now   func() time.Time
	newID func() string
}

func newService(deps module.Dependencies) service {
	return service{
		store:   deps.Store,
		sender:  deps.Sender,
		baseURL: strings.TrimRight(deps.BaseURL, "/"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// slugify lowercases a name and collapses everything that is not a
// letter or digit into single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func (s service) teamByID(ctx context.Context, teamID string) (webstorage.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return webstorage.Team{}, apperrors.E(apperrors.KindInvalidInput, "team id is required")
	}
	team, ok, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return webstorage.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		// Old links use the slug instead of the id.
		team, ok, err = s.store.GetTeamBySlug(ctx, teamID)
		if err != nil {
			return webstorage.Team{}, fmt.Errorf("get team by slug: %w", err)
		}
	}
	if !ok {
		return webstorage.Team{}, apperrors.E(apperrors.KindNotFound, "team not found")
	}
	return team, nil
}

type teamDetail struct {
	team     webstorage.Team
	events   []webstorage.Event
	members  []webstorage.Member
	sponsors []webstorage.Sponsor
	isMember bool
	isAdmin  bool
}

func (s service) teamDetail(ctx context.Context, team webstorage.Team, profileID string) (teamDetail, error) {
	events, err := s.store.ListEventsForTeam(ctx, team.ID)
	if err != nil {
		return teamDetail{}, fmt.Errorf("list team events: %w", err)
	}
	members, err := s.store.ListMembers(ctx, team.ID)
	if err != nil {
		return teamDetail{}, fmt.Errorf("list team members: %w", err)
	}
	sponsors, err := s.store.ListSponsors(ctx, team.ID)
	if err != nil {
		return teamDetail{}, fmt.Errorf("list team sponsors: %w", err)
	}
	detail := teamDetail{team: team, events: events, members: members, sponsors: sponsors}
	for _, member := range members {
		if member.ProfileID != profileID {
			continue
		}
		detail.isMember = true
		detail.isAdmin = member.Role == webstorage.MemberRoleAdmin
	}
	if team.OwnerID == profileID && profileID != "" {
		detail.isAdmin = true
	}
	return detail, nil
}

func (s service) createTeam(ctx context.Context, form forms.NewTeamForm, owner webstorage.Profile) (webstorage.Team, error) {
	team := webstorage.Team{
		ID:          s.newID(),
		Slug:        slugify(form.Name),
		Name:        form.Name,
		Access:      form.Access,
		CityID:      form.CityID,
		TZ:          form.TZ,
		CoverImgURL: form.CoverImgURL,
		OwnerID:     owner.ID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateTeam(ctx, team); err != nil {
		return webstorage.Team{}, fmt.Errorf("create team: %w", err)
	}
	member := webstorage.Member{
		TeamID:    team.ID,
		ProfileID: owner.ID,
		Role:      webstorage.MemberRoleAdmin,
		JoinedAt:  s.now().UTC(),
	}
	if err := s.store.PutMember(ctx, member); err != nil {
		return webstorage.Team{}, fmt.Errorf("add team owner: %w", err)
	}
	return team, nil
}

func (s service) updateTeam(ctx context.Context, team webstorage.Team, form forms.TeamForm) (webstorage.Team, error) {
	team.Name = form.Name
	team.Slug = slugify(form.Name)
	team.Access = form.Access
	team.Description = form.Description
	team.AboutPage = form.AboutPage
	team.Category = form.Category
	team.CityID = form.CityID
	team.WebURL = form.WebURL
	team.TZ = form.TZ
	team.CoverImgURL = form.CoverImgURL
	if err := s.store.UpdateTeam(ctx, team); err != nil {
		return webstorage.Team{}, fmt.Errorf("update team: %w", err)
	}
	return team, nil
}

func (s service) join(ctx context.Context, team webstorage.Team, profile webstorage.Profile) error {
	if team.Access == webstorage.TeamAccessPrivate {
		return apperrors.E(apperrors.KindForbidden, "this team is invite only")
	}
	member := webstorage.Member{
		TeamID:    team.ID,
		ProfileID: profile.ID,
		Role:      webstorage.MemberRoleNormal,
		JoinedAt:  s.now().UTC(),
	}
	if err := s.store.PutMember(ctx, member); err != nil {
		return fmt.Errorf("join team: %w", err)
	}
	return nil
}

func (s service) leave(ctx context.Context, team webstorage.Team, profile webstorage.Profile) error {
	if team.OwnerID == profile.ID {
		return apperrors.E(apperrors.KindInvalidInput, "the team owner cannot leave the team")
	}
	if err := s.store.DeleteMember(ctx, team.ID, profile.ID); err != nil {
		return fmt.Errorf("leave team: %w", err)
	}
	return nil
}

func (s service) invite(ctx context.Context, team webstorage.Team, emails []string) error {
	for _, email := range emails {
		invite := webstorage.TeamInvite{
			ID:        s.newID(),
			TeamID:    team.ID,
			Email:     strings.ToLower(email),
			CreatedAt: s.now().UTC(),
		}
		if err := s.store.CreateTeamInvite(ctx, invite); err != nil {
			return fmt.Errorf("create team invite: %w", err)
		}
		link := s.baseURL + routepath.Team(team.ID) + "accept-invite/?invite=" + invite.ID
		message := mail.Message{
			To:      invite.Email,
			Subject: fmt.Sprintf("You have been invited to join %s", team.Name),
			Body:    fmt.Sprintf("Join %s on Get Together:\n\n%s\n", team.Name, link),
		}
		if err := s.sender.Send(ctx, message); err != nil {
			return fmt.Errorf("send team invite: %w", err)
		}
	}
	return nil
}

// inviteForProfile resolves an invite token and checks it belongs to
// the signed-in profile's address.
func (s service) inviteForProfile(ctx context.Context, team webstorage.Team, inviteID string, profile webstorage.Profile) (webstorage.TeamInvite, error) {
	invite, ok, err := s.store.GetTeamInvite(ctx, inviteID)
	if err != nil {
		return webstorage.TeamInvite{}, fmt.Errorf("get team invite: %w", err)
	}
	if !ok || invite.TeamID != team.ID {
		return webstorage.TeamInvite{}, apperrors.E(apperrors.KindNotFound, "invite not found")
	}
	if !invite.AcceptedAt.IsZero() {
		return webstorage.TeamInvite{}, apperrors.E(apperrors.KindInvalidInput, "this invite was already accepted")
	}
	if !strings.EqualFold(invite.Email, profile.Email) {
		return webstorage.TeamInvite{}, apperrors.E(apperrors.KindForbidden, "this invite was sent to a different address")
	}
	return invite, nil
}

func (s service) acceptInvite(ctx context.Context, team webstorage.Team, inviteID string, profile webstorage.Profile) error {
	invite, err := s.inviteForProfile(ctx, team, inviteID, profile)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if err := s.store.MarkTeamInviteAccepted(ctx, invite.ID, now); err != nil {
		return fmt.Errorf("accept team invite: %w", err)
	}
	member := webstorage.Member{
		TeamID:    team.ID,
		ProfileID: profile.ID,
		Role:      webstorage.MemberRoleNormal,
		JoinedAt:  now,
	}
	if err := s.store.PutMember(ctx, member); err != nil {
		return fmt.Errorf("add invited member: %w", err)
	}
	return nil
}

func (s service) contact(ctx context.Context, team webstorage.Team, form forms.TeamContactForm, from webstorage.Profile) error {
	members, err := s.store.ListMembers(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("list team members: %w", err)
	}
	var sent int
	for _, member := range members {
		if form.To == forms.ContactAdmins && member.Role != webstorage.MemberRoleAdmin {
			continue
		}
		profile, ok, err := s.store.GetProfile(ctx, member.ProfileID)
		if err != nil {
			return fmt.Errorf("get member profile: %w", err)
		}
		if !ok || !profile.SendNotifications {
			continue
		}
		message := mail.Message{
			To:      profile.Email,
			Subject: fmt.Sprintf("A message from %s", team.Name),
			Body:    fmt.Sprintf("%s\n\nSent by %s via %s\n", form.Body, from.Email, team.Name),
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

func (s service) createEvent(ctx context.Context, team webstorage.Team, form forms.NewEventForm, creator webstorage.Profile) (webstorage.Event, error) {
	now := s.now().UTC()
	event := webstorage.Event{
		ID:        s.newID(),
		TeamID:    team.ID,
		Slug:      slugify(form.Name),
		Name:      form.Name,
		StartTime: form.StartTime,
		EndTime:   form.EndTime,
		TZ:        team.TZ,
		Status:    webstorage.EventStatusConfirmed,
		CreatedBy: creator.ID,
		CreatedAt: now,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return webstorage.Event{}, fmt.Errorf("create event: %w", err)
	}
	attendee := webstorage.Attendee{
		EventID:   event.ID,
		ProfileID: creator.ID,
		Status:    webstorage.AttendeeStatusYes,
		Host:      true,
		CreatedAt: now,
	}
	if err := s.store.PutAttendee(ctx, attendee); err != nil {
		return webstorage.Event{}, fmt.Errorf("add event host: %w", err)
	}
	return event, nil
}

// defineTeam fills in the descriptive fields collected by the second
// step of team creation.
func (s service) defineTeam(ctx context.Context, team webstorage.Team, form forms.TeamDefinitionForm) (webstorage.Team, error) {
	team.Category = form.Category
	team.WebURL = form.WebURL
	team.Description = form.Description
	team.AboutPage = form.AboutPage
	if err := s.store.UpdateTeam(ctx, team); err != nil {
		return webstorage.Team{}, fmt.Errorf("define team: %w", err)
	}
	return team, nil
}

func (s service) createSeries(ctx context.Context, team webstorage.Team, form forms.EventSeriesForm) (webstorage.EventSeries, error) {
	if form.Recurrences == "" {
		return webstorage.EventSeries{}, apperrors.E(apperrors.KindInvalidInput, "a recurrence rule is required")
	}
	if _, err := rrule.StrToRRule(form.Recurrences); err != nil {
		return webstorage.EventSeries{}, apperrors.E(apperrors.KindInvalidInput, "invalid recurrence rule")
	}
	series := webstorage.EventSeries{
		ID:            s.newID(),
		TeamID:        team.ID,
		Name:          form.Name,
		StartTime:     form.StartTime,
		EndTime:       form.EndTime,
		Recurrence:    form.Recurrences,
		Summary:       form.Summary,
		AttendeeLimit: form.AttendeeLimit,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.CreateEventSeries(ctx, series); err != nil {
		return webstorage.EventSeries{}, fmt.Errorf("create event series: %w", err)
	}
	return series, nil
}

func (s service) deleteSeries(ctx context.Context, team webstorage.Team, seriesID string) error {
	series, ok, err := s.store.GetEventSeries(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("get event series: %w", err)
	}
	if !ok || series.TeamID != team.ID {
		return apperrors.E(apperrors.KindNotFound, "series not found")
	}
	if err := s.store.DeleteEventSeries(ctx, series.ID); err != nil {
		return fmt.Errorf("delete event series: %w", err)
	}
	return nil
}

func (s service) addSponsor(ctx context.Context, team webstorage.Team, form forms.SponsorForm) error {
	sponsor := webstorage.Sponsor{
		ID:      s.newID(),
		TeamID:  team.ID,
		Name:    form.Name,
		WebURL:  form.WebURL,
		LogoURL: form.LogoURL,
	}
	if err := s.store.CreateSponsor(ctx, sponsor); err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

func (s service) ownedOrgIDs(ctx context.Context, profileID string) ([]string, error) {
	orgs, err := s.store.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	var ids []string
	for _, org := range orgs {
		if org.OwnerID == profileID {
			ids = append(ids, org.ID)
		}
	}
	return ids, nil
}

// inviteToOrg records an organization-initiated affiliation offer; a
// team admin finalizes it on the organization page.
func (s service) inviteToOrg(ctx context.Context, team webstorage.Team, orgID string) error {
	request := webstorage.OrgTeamRequest{
		ID:        s.newID(),
		OrgID:     orgID,
		TeamID:    team.ID,
		FromOrg:   true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateOrgTeamRequest(ctx, request); err != nil {
		return fmt.Errorf("create org invite: %w", err)
	}
	return nil
}

// eventsFeed serializes the team's confirmed events as an iCalendar
// document.
func (s service) eventsFeed(ctx context.Context, team webstorage.Team) (string, error) {
	events, err := s.store.ListEventsForTeam(ctx, team.ID)
	if err != nil {
		return "", fmt.Errorf("list team events: %w", err)
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Get Together//Community Events//EN")
	cal.SetName(team.Name)
	for _, event := range events {
		if event.Status != webstorage.EventStatusConfirmed {
			continue
		}
		entry := cal.AddEvent(event.ID + "@gettogether.community")
		entry.SetCreatedTime(event.CreatedAt)
		entry.SetStartAt(event.StartTime)
		entry.SetEndAt(event.EndTime)
		entry.SetSummary(event.Name)
		if event.Summary != "" {
			entry.SetDescription(event.Summary)
		}
		entry.SetURL(s.baseURL + routepath.Event(event.ID, event.Slug))
		if event.PlaceID != "" {
			if place, ok, err := s.store.GetPlace(ctx, event.PlaceID); err == nil && ok {
				entry.SetLocation(place.Name)
			}
		}
	}
	return cal.Serialize(), nil
}
