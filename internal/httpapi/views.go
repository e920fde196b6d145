// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"github.com/questlog/questlog/internal/game"
)

// playerSummary is the list projection of a player.
type playerSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	IsAdmin   bool   `json:"is_admin"`
}

// playerView is the detail projection: the summary plus the player's
// skills and owned quests.
type playerView struct {
	playerSummary
	Skills []skillSummary `json:"skills"`
	Quests []questSummary `json:"quests"`
}

type questSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	XP      int    `json:"xp"`
	Summary string `json:"summary"`
}

type questOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// questView is the detail projection: the summary plus skills and, when
// the quest is assigned, its owner.
type questView struct {
	questSummary
	Skills []skillSummary `json:"skills"`
	Player *questOwner    `json:"player,omitempty"`
}

type skillSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// skillView is the detail projection: the summary plus the names of linked
// players and the titles of linked quests.
type skillView struct {
	skillSummary
	Players []string `json:"players"`
	Quests  []string `json:"quests"`
}

type progressView struct {
	PlayerName           string `json:"player_name"`
	TotalQuestsCompleted int    `json:"total_quests_completed"`
	TotalXPGained        int    `json:"total_xp_gained"`
	Level                int    `json:"level"`
}

func newPlayerSummary(p *game.Player) playerSummary {
	return playerSummary{
		ID:        p.ID.String(),
		Name:      p.Name,
		ClassName: p.ClassName,
		Level:     p.Level,
		XP:        p.XP,
		IsAdmin:   p.IsAdmin,
	}
}

func newPlayerSummaries(players []*game.Player) []playerSummary {
	out := make([]playerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, newPlayerSummary(p))
	}
	return out
}

func newPlayerView(d *game.PlayerDetail) playerView {
	return playerView{
		playerSummary: newPlayerSummary(&d.Player),
		Skills:        newSkillSummaries(d.Skills),
		Quests:        newQuestSummaries(d.Quests),
	}
}

func newQuestSummary(q *game.Quest) questSummary {
	return questSummary{
		ID:      q.ID.String(),
		Title:   q.Title,
		XP:      q.XP,
		Summary: q.Summary,
	}
}

func newQuestSummaries(quests []*game.Quest) []questSummary {
	out := make([]questSummary, 0, len(quests))
	for _, q := range quests {
		out = append(out, newQuestSummary(q))
	}
	return out
}

func newQuestView(d *game.QuestDetail) questView {
	v := questView{
		questSummary: newQuestSummary(&d.Quest),
		Skills:       newSkillSummaries(d.Skills),
	}
	if d.Owner != nil {
		v.Player = &questOwner{ID: d.Owner.ID.String(), Name: d.Owner.Name}
	}
	return v
}

func newSkillSummary(s *game.Skill) skillSummary {
	return skillSummary{
		ID:    s.ID.String(),
		Name:  s.Name,
		Level: s.Level,
	}
}

func newSkillSummaries(skills []*game.Skill) []skillSummary {
	out := make([]skillSummary, 0, len(skills))
	for _, s := range skills {
		out = append(out, newSkillSummary(s))
	}
	return out
}

func newSkillView(d *game.SkillDetail) skillView {
	players := make([]string, 0, len(d.Players))
	for _, p := range d.Players {
		players = append(players, p.Name)
	}
	quests := make([]string, 0, len(d.Quests))
	for _, q := range d.Quests {
		quests = append(quests, q.Title)
	}
	return skillView{
		skillSummary: newSkillSummary(&d.Skill),
		Players:      players,
		Quests:       quests,
	}
}

func newProgressView(p *game.Progress) progressView {
	return progressView{
		PlayerName:           p.PlayerName,
		TotalQuestsCompleted: p.TotalQuests,
		TotalXPGained:        p.TotalXP,
		Level:                p.Level,
	}
}
