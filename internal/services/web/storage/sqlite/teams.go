package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const teamColumns = `id, slug, name, access, description, about_page, category,
 city_id, web_url, tz, cover_img_url, owner_id, org_id, created_at`

// CreateTeam inserts a new team row.
func (s *Store) CreateTeam(ctx context.Context, team webstorage.Team) error {
	if err := s.ready(); err != nil {
		return err
	}
	team.ID = strings.TrimSpace(team.ID)
	if team.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(team.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if team.Slug == "" {
		return fmt.Errorf("team slug is required")
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	if team.TZ == "" {
		team.TZ = "UTC"
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO teams (`+teamColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		team.ID,
		team.Slug,
		team.Name,
		int64(team.Access),
		team.Description,
		team.AboutPage,
		team.Category,
		team.CityID,
		team.WebURL,
		team.TZ,
		team.CoverImgURL,
		team.OwnerID,
		team.OrgID,
		timeToUnixMillis(team.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// UpdateTeam rewrites a team's mutable fields.
func (s *Store) UpdateTeam(ctx context.Context, team webstorage.Team) error {
	if err := s.ready(); err != nil {
		return err
	}
	team.ID = strings.TrimSpace(team.ID)
	if team.ID == "" {
		return fmt.Errorf("team id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE teams SET
		   slug = ?, name = ?, access = ?, description = ?, about_page = ?,
		   category = ?, city_id = ?, web_url = ?, tz = ?, cover_img_url = ?, org_id = ?
		 WHERE id = ?`,
		team.Slug,
		team.Name,
		int64(team.Access),
		team.Description,
		team.AboutPage,
		team.Category,
		team.CityID,
		team.WebURL,
		team.TZ,
		team.CoverImgURL,
		team.OrgID,
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

// DeleteTeam removes a team; memberships and events cascade.
func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, strings.TrimSpace(teamID)); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

// GetTeam loads a team by id.
func (s *Store) GetTeam(ctx context.Context, teamID string) (webstorage.Team, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Team{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = ?`,
		strings.TrimSpace(teamID),
	)
	return scanTeam(row)
}

// GetTeamBySlug loads a team by its URL slug.
func (s *Store) GetTeamBySlug(ctx context.Context, slug string) (webstorage.Team, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Team{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+teamColumns+` FROM teams WHERE slug = ?`,
		strings.TrimSpace(slug),
	)
	return scanTeam(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeamColumns(scanner rowScanner) (webstorage.Team, error) {
	var team webstorage.Team
	var access, createdAt int64
	err := scanner.Scan(
		&team.ID,
		&team.Slug,
		&team.Name,
		&access,
		&team.Description,
		&team.AboutPage,
		&team.Category,
		&team.CityID,
		&team.WebURL,
		&team.TZ,
		&team.CoverImgURL,
		&team.OwnerID,
		&team.OrgID,
		&createdAt,
	)
	if err != nil {
		return webstorage.Team{}, err
	}
	team.Access = webstorage.TeamAccess(access)
	team.CreatedAt = unixMillisToTime(createdAt)
	return team, nil
}

func scanTeam(row *sql.Row) (webstorage.Team, bool, error) {
	team, err := scanTeamColumns(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Team{}, false, nil
		}
		return webstorage.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return team, true, nil
}

// ListTeams returns all public teams ordered by name.
func (s *Store) ListTeams(ctx context.Context) ([]webstorage.Team, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+teamColumns+` FROM teams WHERE access = ? ORDER BY name`,
		int64(webstorage.TeamAccessPublic),
	)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return collectTeams(rows)
}

// SearchTeams filters public teams by name prefix and optional city distance.
//
// Distance filtering uses a flat-earth degree approximation which is accurate
// enough for the coarse "within N km" listing filter it backs.
func (s *Store) SearchTeams(ctx context.Context, search webstorage.TeamSearch) ([]webstorage.Team, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT ` + teamColumns + ` FROM teams WHERE access = ?`
	args := []any{int64(webstorage.TeamAccessPublic)}

	name := strings.TrimSpace(search.Name)
	if name != "" {
		query += ` AND name LIKE ? COLLATE NOCASE`
		args = append(args, name+"%")
	}

	cityID := strings.TrimSpace(search.CityID)
	if cityID != "" && search.DistanceKM > 0 {
		city, found, err := s.GetCity(ctx, cityID)
		if err != nil {
			return nil, err
		}
		if found {
			// 1 degree of latitude is ~111km; longitude shrinks with latitude
			// but the bounding box only needs to over-approximate.
			degrees := float64(search.DistanceKM) / 111.0
			query += ` AND city_id IN (
			   SELECT id FROM cities
			   WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?)`
			args = append(args,
				city.Latitude-degrees, city.Latitude+degrees,
				city.Longitude-degrees, city.Longitude+degrees,
			)
		}
	} else if cityID != "" {
		query += ` AND city_id = ?`
		args = append(args, cityID)
	}

	query += ` ORDER BY name`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}
	return collectTeams(rows)
}

func collectTeams(rows *sql.Rows) ([]webstorage.Team, error) {
	defer func() { _ = rows.Close() }()
	teams := make([]webstorage.Team, 0)
	for rows.Next() {
		team, err := scanTeamColumns(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return teams, nil
}

// PutMember upserts a team membership.
func (s *Store) PutMember(ctx context.Context, member webstorage.Member) error {
	if err := s.ready(); err != nil {
		return err
	}
	if member.TeamID == "" || member.ProfileID == "" {
		return fmt.Errorf("member team id and profile id are required")
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO members (team_id, profile_id, role, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(team_id, profile_id) DO UPDATE SET role = excluded.role`,
		member.TeamID,
		member.ProfileID,
		int64(member.Role),
		timeToUnixMillis(member.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("put member: %w", err)
	}
	return nil
}

// DeleteMember removes a membership.
func (s *Store) DeleteMember(ctx context.Context, teamID, profileID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM members WHERE team_id = ? AND profile_id = ?`,
		strings.TrimSpace(teamID), strings.TrimSpace(profileID),
	)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// ListMembers returns memberships for a team.
func (s *Store) ListMembers(ctx context.Context, teamID string) ([]webstorage.Member, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT team_id, profile_id, role, joined_at FROM members WHERE team_id = ? ORDER BY joined_at`,
		strings.TrimSpace(teamID),
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	members := make([]webstorage.Member, 0)
	for rows.Next() {
		var member webstorage.Member
		var role, joinedAt int64
		if err := rows.Scan(&member.TeamID, &member.ProfileID, &role, &joinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		member.Role = webstorage.MemberRole(role)
		member.JoinedAt = unixMillisToTime(joinedAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// GetMember loads one membership.
func (s *Store) GetMember(ctx context.Context, teamID, profileID string) (webstorage.Member, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Member{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT team_id, profile_id, role, joined_at FROM members WHERE team_id = ? AND profile_id = ?`,
		strings.TrimSpace(teamID), strings.TrimSpace(profileID),
	)
	var member webstorage.Member
	var role, joinedAt int64
	if err := row.Scan(&member.TeamID, &member.ProfileID, &role, &joinedAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Member{}, false, nil
		}
		return webstorage.Member{}, false, fmt.Errorf("get member: %w", err)
	}
	member.Role = webstorage.MemberRole(role)
	member.JoinedAt = unixMillisToTime(joinedAt)
	return member, true, nil
}

// ListTeamsForProfile returns teams a profile belongs to.
func (s *Store) ListTeamsForProfile(ctx context.Context, profileID string) ([]webstorage.Team, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+teamColumns+` FROM teams
		 WHERE id IN (SELECT team_id FROM members WHERE profile_id = ?)
		 ORDER BY name`,
		strings.TrimSpace(profileID),
	)
	if err != nil {
		return nil, fmt.Errorf("list teams for profile: %w", err)
	}
	return collectTeams(rows)
}

// CreateSponsor inserts a sponsor row.
func (s *Store) CreateSponsor(ctx context.Context, sponsor webstorage.Sponsor) error {
	if err := s.ready(); err != nil {
		return err
	}
	if sponsor.ID == "" || sponsor.TeamID == "" {
		return fmt.Errorf("sponsor id and team id are required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sponsors (id, team_id, name, web_url, logo_url) VALUES (?, ?, ?, ?, ?)`,
		sponsor.ID, sponsor.TeamID, sponsor.Name, sponsor.WebURL, sponsor.LogoURL,
	)
	if err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

// ListSponsors returns sponsors for a team.
func (s *Store) ListSponsors(ctx context.Context, teamID string) ([]webstorage.Sponsor, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, team_id, name, web_url, logo_url FROM sponsors WHERE team_id = ? ORDER BY name`,
		strings.TrimSpace(teamID),
	)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sponsors := make([]webstorage.Sponsor, 0)
	for rows.Next() {
		var sponsor webstorage.Sponsor
		if err := rows.Scan(&sponsor.ID, &sponsor.TeamID, &sponsor.Name, &sponsor.WebURL, &sponsor.LogoURL); err != nil {
			return nil, fmt.Errorf("scan sponsor: %w", err)
		}
		sponsors = append(sponsors, sponsor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sponsors: %w", err)
	}
	return sponsors, nil
}

// CreateTeamInvite inserts a pending team invitation.
func (s *Store) CreateTeamInvite(ctx context.Context, invite webstorage.TeamInvite) error {
	if err := s.ready(); err != nil {
		return err
	}
	if invite.ID == "" || invite.TeamID == "" {
		return fmt.Errorf("invite id and team id are required")
	}
	invite.Email = strings.ToLower(strings.TrimSpace(invite.Email))
	if invite.Email == "" {
		return fmt.Errorf("invite email is required")
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO team_invites (id, team_id, email, accepted_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		invite.ID, invite.TeamID, invite.Email,
		timeToUnixMillis(invite.AcceptedAt), timeToUnixMillis(invite.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create team invite: %w", err)
	}
	return nil
}

// GetTeamInvite loads a team invite by id.
func (s *Store) GetTeamInvite(ctx context.Context, inviteID string) (webstorage.TeamInvite, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.TeamInvite{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, team_id, email, accepted_at, created_at FROM team_invites WHERE id = ?`,
		strings.TrimSpace(inviteID),
	)
	var invite webstorage.TeamInvite
	var acceptedAt, createdAt int64
	if err := row.Scan(&invite.ID, &invite.TeamID, &invite.Email, &acceptedAt, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.TeamInvite{}, false, nil
		}
		return webstorage.TeamInvite{}, false, fmt.Errorf("get team invite: %w", err)
	}
	invite.AcceptedAt = unixMillisToTime(acceptedAt)
	invite.CreatedAt = unixMillisToTime(createdAt)
	return invite, true, nil
}

// MarkTeamInviteAccepted records invite acceptance.
func (s *Store) MarkTeamInviteAccepted(ctx context.Context, inviteID string, acceptedAt time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	if acceptedAt.IsZero() {
		acceptedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE team_invites SET accepted_at = ? WHERE id = ?`,
		timeToUnixMillis(acceptedAt), strings.TrimSpace(inviteID),
	)
	if err != nil {
		return fmt.Errorf("mark team invite accepted: %w", err)
	}
	return nil
}

// CreateOrganization inserts an organization row.
func (s *Store) CreateOrganization(ctx context.Context, org webstorage.Organization) error {
	if err := s.ready(); err != nil {
		return err
	}
	if org.ID == "" || strings.TrimSpace(org.Name) == "" {
		return fmt.Errorf("organization id and name are required")
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO organizations (id, name, description, cover_img_url, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		org.ID, org.Name, org.Description, org.CoverImgURL, org.OwnerID,
		timeToUnixMillis(org.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// GetOrganization loads an organization by id.
func (s *Store) GetOrganization(ctx context.Context, orgID string) (webstorage.Organization, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Organization{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, description, cover_img_url, owner_id, created_at
		 FROM organizations WHERE id = ?`,
		strings.TrimSpace(orgID),
	)
	var org webstorage.Organization
	var createdAt int64
	if err := row.Scan(&org.ID, &org.Name, &org.Description, &org.CoverImgURL, &org.OwnerID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Organization{}, false, nil
		}
		return webstorage.Organization{}, false, fmt.Errorf("get organization: %w", err)
	}
	org.CreatedAt = unixMillisToTime(createdAt)
	return org, true, nil
}

// ListOrganizations returns all organizations ordered by name.
func (s *Store) ListOrganizations(ctx context.Context) ([]webstorage.Organization, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, description, cover_img_url, owner_id, created_at
		 FROM organizations ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	orgs := make([]webstorage.Organization, 0)
	for rows.Next() {
		var org webstorage.Organization
		var createdAt int64
		if err := rows.Scan(&org.ID, &org.Name, &org.Description, &org.CoverImgURL, &org.OwnerID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		org.CreatedAt = unixMillisToTime(createdAt)
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

// CreateOrgTeamRequest inserts a pending org/team link request.
func (s *Store) CreateOrgTeamRequest(ctx context.Context, request webstorage.OrgTeamRequest) error {
	if err := s.ready(); err != nil {
		return err
	}
	if request.ID == "" || request.OrgID == "" || request.TeamID == "" {
		return fmt.Errorf("request id, org id and team id are required")
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO org_team_requests (id, org_id, team_id, from_org, accepted_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		request.ID, request.OrgID, request.TeamID,
		boolToInt(request.FromOrg),
		timeToUnixMillis(request.AcceptedAt), timeToUnixMillis(request.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create org team request: %w", err)
	}
	return nil
}

// GetOrgTeamRequest loads a pending org/team request.
func (s *Store) GetOrgTeamRequest(ctx context.Context, requestID string) (webstorage.OrgTeamRequest, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.OrgTeamRequest{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, org_id, team_id, from_org, accepted_at, created_at
		 FROM org_team_requests WHERE id = ?`,
		strings.TrimSpace(requestID),
	)
	var request webstorage.OrgTeamRequest
	var fromOrg, acceptedAt, createdAt int64
	if err := row.Scan(&request.ID, &request.OrgID, &request.TeamID, &fromOrg, &acceptedAt, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.OrgTeamRequest{}, false, nil
		}
		return webstorage.OrgTeamRequest{}, false, fmt.Errorf("get org team request: %w", err)
	}
	request.FromOrg = fromOrg != 0
	request.AcceptedAt = unixMillisToTime(acceptedAt)
	request.CreatedAt = unixMillisToTime(createdAt)
	return request, true, nil
}

// ListOrgTeamRequests lists pending requests for an organization.
func (s *Store) ListOrgTeamRequests(ctx context.Context, orgID string) ([]webstorage.OrgTeamRequest, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, org_id, team_id, from_org, accepted_at, created_at
		 FROM org_team_requests WHERE org_id = ? AND accepted_at = 0
		 ORDER BY created_at`,
		strings.TrimSpace(orgID),
	)
	if err != nil {
		return nil, fmt.Errorf("list org team requests: %w", err)
	}
	defer rows.Close()
	var requests []webstorage.OrgTeamRequest
	for rows.Next() {
		var request webstorage.OrgTeamRequest
		var fromOrg, acceptedAt, createdAt int64
		if err := rows.Scan(&request.ID, &request.OrgID, &request.TeamID, &fromOrg, &acceptedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan org team request: %w", err)
		}
		request.FromOrg = fromOrg != 0
		request.AcceptedAt = unixMillisToTime(acceptedAt)
		request.CreatedAt = unixMillisToTime(createdAt)
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// AcceptOrgTeamRequest records acceptance and links the team to the org.
func (s *Store) AcceptOrgTeamRequest(ctx context.Context, requestID string, acceptedAt time.Time) error {
	if err := s.ready(); err != nil {
		return err
	}
	request, found, err := s.GetOrgTeamRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("org team request not found")
	}
	if acceptedAt.IsZero() {
		acceptedAt = time.Now().UTC()
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept request: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE org_team_requests SET accepted_at = ? WHERE id = ?`,
		timeToUnixMillis(acceptedAt), request.ID,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("accept org team request: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE teams SET org_id = ? WHERE id = ?`,
		request.OrgID, request.TeamID,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("link team to org: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accept request: %w", err)
	}
	return nil
}
