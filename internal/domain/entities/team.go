package entities

import (
	"fmt"
	"sort"
)

// Team is a discussion group registered for the event
type Team struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Topic       string `json:"topicName" yaml:"topic"`
	SessionID   int    `json:"sessionId" yaml:"session"`
	DocumentURL string `json:"-" yaml:"document"`
}

// HasDocument reports whether a reference document is mapped to the team
func (t Team) HasDocument() bool {
	return t.DocumentURL != ""
}

// BreakoutSession groups teams sharing a venue timeslot
type BreakoutSession struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	TeamIDs []int  `json:"teamIds" yaml:"teams"`
}

// Catalog is an immutable snapshot of teams, sessions and their reference documents
type Catalog struct {
	sessions []BreakoutSession
	teams    []Team
	byID     map[int]Team
}

// NewCatalog validates and indexes the given sessions and teams
func NewCatalog(sessions []BreakoutSession, teams []Team) (*Catalog, error) {
	byID := make(map[int]Team, len(teams))
	for _, t := range teams {
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: team id must be positive, got %d", ErrInvalidCatalog, t.ID)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate team id %d", ErrInvalidCatalog, t.ID)
		}
		if t.Name == "" {
			t.Name = fmt.Sprintf("Team %d", t.ID)
		}
		byID[t.ID] = t
	}

	sessionIDs := make(map[int]struct{}, len(sessions))
	for _, s := range sessions {
		if _, dup := sessionIDs[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate session id %d", ErrInvalidCatalog, s.ID)
		}
		sessionIDs[s.ID] = struct{}{}
		for _, id := range s.TeamIDs {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("%w: session %d references unknown team %d", ErrInvalidCatalog, s.ID, id)
			}
		}
	}

	ordered := make([]Team, 0, len(byID))
	for _, t := range byID {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Catalog{
		sessions: append([]BreakoutSession(nil), sessions...),
		teams:    ordered,
		byID:     byID,
	}, nil
}

// Team looks up a team by id
func (c *Catalog) Team(id int) (Team, bool) {
	if c == nil {
		return Team{}, false
	}
	t, ok := c.byID[id]
	return t, ok
}

// DocumentURL returns the reference document mapped to the team, if any
func (c *Catalog) DocumentURL(teamID int) (string, bool) {
	t, ok := c.Team(teamID)
	if !ok || !t.HasDocument() {
		return "", false
	}
	return t.DocumentURL, true
}

// Teams returns all teams ordered by id
func (c *Catalog) Teams() []Team {
	if c == nil {
		return nil
	}
	return append([]Team(nil), c.teams...)
}

// TeamIDs returns all team ids in ascending order
func (c *Catalog) TeamIDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, len(c.teams))
	for i, t := range c.teams {
		ids[i] = t.ID
	}
	return ids
}

// Sessions returns the breakout sessions in configured order
func (c *Catalog) Sessions() []BreakoutSession {
	if c == nil {
		return nil
	}
	return append([]BreakoutSession(nil), c.sessions...)
}

// TeamsInSession returns the teams of a session in the session's order
func (c *Catalog) TeamsInSession(sessionID int) []Team {
	if c == nil {
		return nil
	}
	for _, s := range c.sessions {
		if s.ID != sessionID {
			continue
		}
		teams := make([]Team, 0, len(s.TeamIDs))
		for _, id := range s.TeamIDs {
			teams = append(teams, c.byID[id])
		}
		return teams
	}
	return nil
}
