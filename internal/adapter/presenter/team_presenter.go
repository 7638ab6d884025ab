package presenter

import (
	"github.com/johnquangdev/oncovoice/internal/adapter/dto/team"
	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// ToTeamResponse converts a Team entity to TeamResponse DTO
func ToTeamResponse(t entities.Team) *team.TeamResponse {
	return &team.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		TopicName:   t.Topic,
		SessionID:   t.SessionID,
		HasDocument: t.HasDocument(),
	}
}

// ToCatalogResponse converts the catalog to CatalogResponse
func ToCatalogResponse(c *entities.Catalog) *team.CatalogResponse {
	out := &team.CatalogResponse{
		Sessions: []*team.SessionResponse{},
		Teams:    []*team.TeamResponse{},
	}
	for _, t := range c.Teams() {
		out.Teams = append(out.Teams, ToTeamResponse(t))
	}
	for _, s := range c.Sessions() {
		session := &team.SessionResponse{ID: s.ID, Name: s.Name, Teams: []*team.TeamResponse{}}
		for _, t := range c.TeamsInSession(s.ID) {
			session.Teams = append(session.Teams, ToTeamResponse(t))
		}
		out.Sessions = append(out.Sessions, session)
	}
	return out
}
