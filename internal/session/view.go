package session

import (
	"magictrail.dev/internal/protocol"
	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/rhythm"
	"magictrail.dev/internal/sim/trail"
)

func (s *Session) state(reason string, ack uint64) protocol.StateMsg {
	g := s.game
	s.seq++
	tr := g.Travel()
	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Seq:             s.seq,
		Ack:             ack,
		Reason:          reason,
		Mode:            g.Mode(),
		Status:          g.Status(),
		Player:          g.Player(),
		Date:            g.Date().String(),
		DaysElapsed:     g.DaysElapsed(),
		Morale:          g.Morale(),
		Resources:       g.Resources(),
		Traveling:       s.travel.Running(),
		Travel: protocol.TravelView{
			Pace:             tr.Pace,
			Rations:          tr.Rations,
			DistanceTraveled: tr.DistanceTraveled,
			DistanceToNext:   tr.DistanceToNext,
			Waypoint:         waypointView(g.CurrentWaypoint()),
		},
		Achievements:    g.Unlocked(),
		NewAchievements: s.fresh,
	}
	s.fresh = nil
	if trail.Stranded(g.Snapshot()) {
		msg.Stranded = true
		msg.Recovery = g.FoodRecovery()
	}
	if next, ok := g.NextWaypoint(); ok {
		v := waypointView(next)
		msg.Travel.Next = &v
	}
	for _, m := range g.Party() {
		msg.Party = append(msg.Party, protocol.TravelerView{
			ID: m.ID, Name: m.Name, Kind: m.Kind, Health: m.Health, Alive: m.Alive,
		})
	}
	if ev, ok := g.ActiveEvent(); ok {
		msg.Event = s.eventView(ev)
	}
	if s.scorer != nil {
		msg.Challenge = s.challengeView()
	}
	return msg
}

func waypointView(w catalogs.Waypoint) protocol.WaypointView {
	return protocol.WaypointView{
		ID:       w.ID,
		Name:     w.Name,
		Region:   w.Region,
		Distance: w.DistanceFromStart,
		HasShop:  w.HasShop,
		HasRiver: w.HasRiver,
	}
}

func (s *Session) eventView(ev catalogs.Event) *protocol.EventView {
	v := &protocol.EventView{
		ID:          ev.ID,
		Category:    ev.Category,
		Title:       ev.Title,
		Description: ev.Description,
		Character:   ev.Character,
	}
	for i, c := range ev.Choices {
		v.Choices = append(v.Choices, protocol.ChoiceView{Text: c.Text, Affordable: s.game.CanChoose(i)})
	}
	return v
}

func (s *Session) challengeView() *protocol.ChallengeView {
	sc := s.scorer
	v := &protocol.ChallengeView{
		ID:        s.challenge.ID,
		Title:     s.challenge.Title,
		Kind:      s.challenge.Kind,
		State:     sc.State().String(),
		Segment:   sc.SegmentIndex(),
		Pointer:   sc.Pointer(),
		Targets:   sc.Targets(),
		Score:     sc.Score(),
		Combo:     sc.Combo(),
		Feedback:  string(s.feedback),
		ElapsedMs: s.elapsed.Milliseconds(),
	}
	if i := sc.SegmentIndex(); i >= 0 && i < len(s.challenge.Segments) {
		v.Text = s.challenge.Segments[i].Text
	}
	if sc.State() == rhythm.StateFinished {
		v.Grade = sc.Result().Grade
	}
	return v
}

// Welcome describes the route and content the session runs on.
func (s *Session) Welcome(sessionID string, resumed bool) protocol.WelcomeMsg {
	route := s.game.Route()
	msg := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		Route:           protocol.RouteSummary{Distance: route.Total()},
		Catalogs:        s.cfg.Catalogs.Digests(),
		Timing:          s.Timing(),
		Resumed:         resumed,
	}
	for _, w := range route.Waypoints() {
		msg.Route.Waypoints = append(msg.Route.Waypoints, waypointView(w))
	}
	return msg
}
