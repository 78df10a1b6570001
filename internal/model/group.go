package model

import "time"

type Group struct {
	ID           uint64    `json:"id"`
	Members      []Member  `json:"members"`
	GroupFeePaid bool      `json:"groupFeePaid"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (g *Group) Valid() bool {
	if len(g.Members) > 2 {
		return false
	}

	for idx := range g.Members {
		if !g.Members[idx].Valid() {
			return false
		}
	}

	return true
}
