// Package stats derives dashboard and team figures from a project's tasks.
package stats

import (
	"math"

	"github.com/nhle/zenith/internal/model"
)

// FullLoad is the number of open tasks at which a member counts as fully
// saturated.
const FullLoad = 5

// Summary holds the dashboard counters for one project.
type Summary struct {
	Total        int `json:"total"`
	Todo         int `json:"todo"`
	InProgress   int `json:"inProgress"`
	Done         int `json:"done"`
	HighPriority int `json:"highPriority"`
	Blocked      int `json:"blocked"`

	// Completion is the rounded percentage of tasks that are done.
	Completion int `json:"completion"`
}

// Dashboard counts tasks by status and flags.
func Dashboard(tasks []model.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusTodo:
			s.Todo++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusDone:
			s.Done++
		}
		if t.Priority == model.PriorityHigh {
			s.HighPriority++
		}
		if t.Blocked() {
			s.Blocked++
		}
	}
	s.Completion = percent(s.Done, s.Total)
	return s
}

// Progress returns the rounded completion percentage, 0 with no tasks.
func Progress(tasks []model.Task) int {
	return Dashboard(tasks).Completion
}

// MemberLoad describes one project member's assigned work.
type MemberLoad struct {
	User   model.User `json:"user"`
	Lead   bool       `json:"lead"`
	Total  int        `json:"total"`
	Done   int        `json:"done"`
	Active int        `json:"active"`

	// Saturation is Active relative to FullLoad, capped at 100.
	Saturation float64 `json:"saturation"`
}

// Team returns the load of every project member, owner included, in
// directory order.
func Team(project model.Project, tasks []model.Task, users []model.User) []MemberLoad {
	var team []MemberLoad
	for _, u := range users {
		if !project.HasMember(u.ID) {
			continue
		}

		m := MemberLoad{User: u, Lead: project.IsOwner(u.ID)}
		for _, t := range tasks {
			if !t.AssignedTo(u.ID) {
				continue
			}
			m.Total++
			if t.Status == model.StatusDone {
				m.Done++
			}
		}
		m.Active = m.Total - m.Done
		m.Saturation = math.Min(float64(m.Active)/FullLoad*100, 100)
		team = append(team, m)
	}
	return team
}

// Share is a user's portion of a project's tasks.
type Share struct {
	User     model.User `json:"user"`
	Assigned int        `json:"assigned"`
	Percent  float64    `json:"percent"`
}

// Workload returns, for each user, how many tasks are assigned to them
// and what share of all tasks that is.
func Workload(tasks []model.Task, users []model.User) []Share {
	shares := make([]Share, 0, len(users))
	for _, u := range users {
		s := Share{User: u}
		for _, t := range tasks {
			if t.AssignedTo(u.ID) {
				s.Assigned++
			}
		}
		if len(tasks) > 0 {
			s.Percent = float64(s.Assigned) / float64(len(tasks)) * 100
		}
		shares = append(shares, s)
	}
	return shares
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
